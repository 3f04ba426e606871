package common

// Observer receives notification events dispatched by the manager.
type Observer interface {
	Update(event NotificationEvent) error
	Name() string
}

// Subject is the observable side of the notification pipeline.
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	Notify(event NotificationEvent)
	NotifyAsync(event NotificationEvent)
}
