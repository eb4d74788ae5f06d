package config

import "os"

func IsDebug() bool {
	return os.Getenv("RIDE_DEBUG") == "1"
}
