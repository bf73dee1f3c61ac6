package platform

// DefaultAppName identifies the application to the notification service.
const DefaultAppName = "Writing Pad"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName overrides DefaultAppName.
	AppName string
	// IconPath, when non-empty, points to an image the notification center
	// shows next to the message where supported.
	IconPath string
	// TimeoutMillis is how long the notification stays up; zero uses 5s.
	TimeoutMillis int32
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}

func (o Options) timeout() int32 {
	if o.TimeoutMillis <= 0 {
		return 5000
	}
	return o.TimeoutMillis
}
