package sessions

import (
	"time"

	"github.com/robfig/cron/v3"
	"k8s.io/klog/v2"
)

// Sweeper runs the expiry sweep on a cron schedule.
type Sweeper struct {
	store *Store
	cron  *cron.Cron
	spec  string
}

func NewSweeper(store *Store, spec string) *Sweeper {
	if spec == "" {
		spec = "@every 5m"
	}
	return &Sweeper{
		store: store,
		cron:  cron.New(cron.WithLocation(time.Local)),
		spec:  spec,
	}
}

func (sw *Sweeper) Start() error {
	_, err := sw.cron.AddFunc(sw.spec, func() {
		sw.store.Sweep()
	})
	if err != nil {
		klog.Error(err)
		return err
	}
	sw.cron.Start()
	klog.Infof("session sweeper started with spec %q", sw.spec)
	return nil
}

func (sw *Sweeper) Stop() {
	ctx := sw.cron.Stop()
	<-ctx.Done()
}
