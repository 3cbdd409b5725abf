package config

import "os"

func IsDebug() bool {
	return os.Getenv("TEAMMEM_DEBUG") == "1"
}

func IsJSONLog() bool {
	return os.Getenv("TEAMMEM_LOG_FORMAT") == "json"
}
