package config

import "os"

func IsDebug() bool {
	return os.Getenv("MUSAGE_DEBUG") == "1"
}
