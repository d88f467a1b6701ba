package cronjob

import (
	"time"

	"github.com/robfig/cron/v3"
)

var _cj *cron.Cron

// GetCJ returns the shared cron runner, creating it on first use.
// Jobs are scheduled in UTC; whatever local timezone the box runs in,
// schedules are expressed against UTC clock time.
func GetCJ() *cron.Cron {
	if _cj == nil {
		_cj = cron.New(cron.WithLocation(time.UTC))
		_cj.Start()
	}
	return _cj
}

func StopCJ() {
	if _cj != nil {
		_cj.Stop()
	}
}
