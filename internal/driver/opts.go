package driver

import "time"

type DriverOpt func(*Driver)

func WithTickInterval(d time.Duration) DriverOpt {
	return func(drv *Driver) {
		drv.interval = d
	}
}
