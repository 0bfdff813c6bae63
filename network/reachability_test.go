package network

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/vidra-cli/vidra/key"
	"github.com/vidra-cli/vidra/rx"
)

func TestMonitor(t *testing.T) {
	Convey("Reachability monitor", t, func() {
		viper.Set(key.NetworkProbeInterval, 10)
		sched := rx.NewManualScheduler()
		monitor := NewMonitor(sched)

		online := true
		monitor.probe = func() bool { return online }

		var seen []bool
		monitor.Reachable().Subscribe(func(ok bool) { seen = append(seen, ok) })

		Convey("Should replay the optimistic initial state to new subscribers", func() {
			So(seen, ShouldResemble, []bool{true})
		})

		Convey("Should publish transitions only, not every probe", func() {
			monitor.Start()
			sched.Advance(20 * time.Second)
			So(seen, ShouldResemble, []bool{true})

			online = false
			sched.Advance(10 * time.Second)
			So(seen, ShouldResemble, []bool{true, false})

			sched.Advance(10 * time.Second)
			So(seen, ShouldResemble, []bool{true, false})

			online = true
			sched.Advance(10 * time.Second)
			So(seen, ShouldResemble, []bool{true, false, true})
		})

		Convey("Start should be idempotent and Stop should halt probing", func() {
			probes := 0
			monitor.probe = func() bool { probes++; return true }

			monitor.Start()
			monitor.Start()
			sched.Advance(10 * time.Second)
			So(probes, ShouldEqual, 1)

			monitor.Stop()
			sched.Advance(30 * time.Second)
			So(probes, ShouldEqual, 1)
		})
	})
}
