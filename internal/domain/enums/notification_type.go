package enums

type NotificationType string

const (
	NotificationLike         NotificationType = "like"
	NotificationSuperLike    NotificationType = "superlike"
	NotificationMatch        NotificationType = "match"
	NotificationMessage      NotificationType = "message"
	NotificationEvent        NotificationType = "event"
	NotificationAdmin        NotificationType = "admin"
	NotificationAnnouncement NotificationType = "announcement"
)
