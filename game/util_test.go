package game

import "os"

func setEnv(key, value string) {
	os.Setenv(key, value)
}

func restoreEnv(key string) func() {
	old, ok := os.LookupEnv(key)
	return func() {
		if ok {
			os.Setenv(key, old)
			return
		}
		os.Unsetenv(key)
	}
}
