package core

const (
	AppName    = "teammem"
	AppVersion = "1.0.0"
)
