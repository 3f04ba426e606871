package room

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"chatrelay/internal/common"
	"chatrelay/internal/dbmysql"
	"chatrelay/internal/events"
)

// Service is the Room Registry: it owns room/participant state and the
// membership invariants every other component leans on.
type Service interface {
	GetOrCreateDirect(ctx context.Context, callerID, otherID string) (*dbmysql.Room, bool, error)
	CreateGroup(ctx context.Context, creatorID, name string, memberIDs []string) (*dbmysql.Room, error)
	AddMember(ctx context.Context, callerID, roomID, userID string) error
	RemoveMember(ctx context.Context, callerID, roomID, userID string) error
	IsMember(ctx context.Context, roomID, userID string) (bool, error)
	Room(ctx context.Context, callerID, roomID string) (*dbmysql.Room, error)
	ListRooms(ctx context.Context, userID string) ([]*dbmysql.Room, error)
	ListMembers(ctx context.Context, callerID, roomID string) ([]*dbmysql.Participant, error)
	MarkRead(ctx context.Context, callerID, roomID, messageID string) error
	RoomIDsForUser(ctx context.Context, userID string) ([]string, error)
}

type roomService struct {
	repo        Repository
	locks       *Locks
	broadcaster common.RoomBroadcaster
	publisher   events.Publisher
}

func NewService(repo Repository, locks *Locks, broadcaster common.RoomBroadcaster, publisher events.Publisher) Service {
	return &roomService{
		repo:        repo,
		locks:       locks,
		broadcaster: broadcaster,
		publisher:   publisher,
	}
}

// GetOrCreateDirect returns the direct room for the unordered user pair,
// creating it on first use. The second return value reports creation.
func (s *roomService) GetOrCreateDirect(ctx context.Context, callerID, otherID string) (*dbmysql.Room, bool, error) {
	if callerID == "" || otherID == "" {
		return nil, false, fmt.Errorf("%w: both user ids are required", common.ErrValidation)
	}
	if callerID == otherID {
		return nil, false, fmt.Errorf("%w: cannot open a direct room with yourself", common.ErrValidation)
	}

	key := dbmysql.DirectKeyFor(callerID, otherID)
	existing, err := s.repo.RoomByDirectKey(ctx, key)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}

	room := &dbmysql.Room{
		ID:        uuid.NewString(),
		Type:      dbmysql.RoomTypeDirect,
		DirectKey: &key,
		CreatedBy: callerID,
	}
	participants := []*dbmysql.Participant{
		{UserID: callerID, Role: dbmysql.RoleMember},
		{UserID: otherID, Role: dbmysql.RoleMember},
	}

	if err := s.repo.CreateRoom(ctx, room, participants); err != nil {
		// A concurrent caller may have created the same pair; the unique
		// direct_key index makes the losing insert fail, so re-read.
		if raced, lookupErr := s.repo.RoomByDirectKey(ctx, key); lookupErr == nil {
			return raced, false, nil
		}
		return nil, false, err
	}

	s.publishMemberEvent(ctx, events.TypeRoomCreated, room.ID, callerID, otherID)
	return room, true, nil
}

func (s *roomService) CreateGroup(ctx context.Context, creatorID, name string, memberIDs []string) (*dbmysql.Room, error) {
	if creatorID == "" {
		return nil, fmt.Errorf("%w: creator id is required", common.ErrValidation)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group rooms need a name", common.ErrValidation)
	}

	room := &dbmysql.Room{
		ID:        uuid.NewString(),
		Type:      dbmysql.RoomTypeGroup,
		Name:      name,
		CreatedBy: creatorID,
	}

	participants := []*dbmysql.Participant{
		{UserID: creatorID, Role: dbmysql.RoleAdmin},
	}
	seen := map[string]bool{creatorID: true}
	for _, memberID := range memberIDs {
		if memberID == "" || seen[memberID] {
			continue
		}
		seen[memberID] = true
		participants = append(participants, &dbmysql.Participant{
			UserID: memberID,
			Role:   dbmysql.RoleMember,
		})
	}

	if err := s.repo.CreateRoom(ctx, room, participants); err != nil {
		return nil, err
	}

	for _, p := range participants {
		if p.UserID == creatorID {
			continue
		}
		s.publishMemberEvent(ctx, events.TypeMemberAdded, room.ID, creatorID, p.UserID)
	}
	return room, nil
}

// AddMember adds a user to a group room. Direct rooms are immutable after
// creation; only admins may grow a group.
func (s *roomService) AddMember(ctx context.Context, callerID, roomID, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", common.ErrValidation)
	}

	s.locks.Lock(roomID)
	defer s.locks.Unlock(roomID)

	room, err := s.repo.RoomByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room.Type == dbmysql.RoomTypeDirect {
		return fmt.Errorf("%w: direct rooms are immutable", common.ErrForbidden)
	}

	caller, err := s.repo.ActiveParticipant(ctx, roomID, callerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: not a member of this room", common.ErrForbidden)
		}
		return err
	}
	if !caller.IsAdmin() {
		return fmt.Errorf("%w: only admins can add members", common.ErrForbidden)
	}

	if err := s.repo.AddParticipant(ctx, roomID, userID, dbmysql.RoleMember); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return fmt.Errorf("%w: already a member", common.ErrConflict)
		}
		return err
	}

	s.broadcast(roomID, common.ServerEvent{
		Event: common.EventMemberAdded,
		Data: map[string]interface{}{
			"room_id":  roomID,
			"user_id":  userID,
			"added_by": callerID,
		},
	})
	s.publishMemberEvent(ctx, events.TypeMemberAdded, roomID, callerID, userID)
	return nil
}

// RemoveMember removes a user from a group room. Admins can remove anyone;
// a member can only remove themselves (leave).
func (s *roomService) RemoveMember(ctx context.Context, callerID, roomID, userID string) error {
	if userID == "" {
		userID = callerID
	}

	s.locks.Lock(roomID)
	defer s.locks.Unlock(roomID)

	room, err := s.repo.RoomByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room.Type == dbmysql.RoomTypeDirect {
		return fmt.Errorf("%w: direct rooms are immutable", common.ErrForbidden)
	}

	caller, err := s.repo.ActiveParticipant(ctx, roomID, callerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: not a member of this room", common.ErrForbidden)
		}
		return err
	}
	if userID != callerID && !caller.IsAdmin() {
		return fmt.Errorf("%w: only admins can remove other members", common.ErrForbidden)
	}

	if err := s.repo.RemoveParticipant(ctx, roomID, userID); err != nil {
		return err
	}

	s.broadcast(roomID, common.ServerEvent{
		Event: common.EventMemberRemoved,
		Data: map[string]interface{}{
			"room_id":    roomID,
			"user_id":    userID,
			"removed_by": callerID,
		},
	})
	return nil
}

func (s *roomService) IsMember(ctx context.Context, roomID, userID string) (bool, error) {
	_, err := s.repo.ActiveParticipant(ctx, roomID, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *roomService) Room(ctx context.Context, callerID, roomID string) (*dbmysql.Room, error) {
	room, err := s.repo.RoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	member, err := s.IsMember(ctx, roomID, callerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("%w: not a member of this room", common.ErrForbidden)
	}
	return room, nil
}

func (s *roomService) ListRooms(ctx context.Context, userID string) ([]*dbmysql.Room, error) {
	return s.repo.RoomsByUser(ctx, userID)
}

func (s *roomService) ListMembers(ctx context.Context, callerID, roomID string) ([]*dbmysql.Participant, error) {
	if _, err := s.repo.RoomByID(ctx, roomID); err != nil {
		return nil, err
	}
	member, err := s.IsMember(ctx, roomID, callerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("%w: not a member of this room", common.ErrForbidden)
	}
	return s.repo.ActiveParticipants(ctx, roomID)
}

// MarkRead records the caller's read position and announces it to the room.
func (s *roomService) MarkRead(ctx context.Context, callerID, roomID, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("%w: message id is required", common.ErrValidation)
	}

	if _, err := s.repo.RoomByID(ctx, roomID); err != nil {
		return err
	}
	if _, err := s.repo.ActiveParticipant(ctx, roomID, callerID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: not a member of this room", common.ErrForbidden)
		}
		return err
	}

	exists, err := s.repo.MessageInRoom(ctx, roomID, messageID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: message not in room", common.ErrNotFound)
	}

	now := time.Now().UTC()
	if err := s.repo.SetLastRead(ctx, roomID, callerID, now); err != nil {
		return err
	}

	s.broadcast(roomID, common.ServerEvent{
		Event: common.EventReadMarked,
		Data: map[string]interface{}{
			"room_id":    roomID,
			"user_id":    callerID,
			"message_id": messageID,
			"read_at":    now,
		},
	})
	return nil
}

func (s *roomService) RoomIDsForUser(ctx context.Context, userID string) ([]string, error) {
	return s.repo.RoomIDsByUser(ctx, userID)
}

func (s *roomService) broadcast(roomID string, event common.ServerEvent) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(roomID, event)
	}
}

func (s *roomService) publishMemberEvent(ctx context.Context, eventType, roomID, actorID, userID string) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, events.ChatEvent{
		Type:       eventType,
		RoomID:     roomID,
		ActorID:    actorID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Warn("failed to publish member event")
	}
}
