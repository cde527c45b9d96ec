package bench

import (
	"fmt"
	"os"
	"sync"
	"time"

	vm "github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ValentinKolb/omap/cmd/util"
	"github.com/ValentinKolb/omap/lib/executor"
	"github.com/ValentinKolb/omap/lib/logging"
	"github.com/ValentinKolb/omap/lib/omap"
)

var (
	// BenchCmd represents the bench command
	BenchCmd = &cobra.Command{
		Use:               "bench",
		Short:             "Measure mutation throughput of the observable map",
		Long:              util.WrapString("Runs concurrent writers against an inline map and a marshaled map and reports the achieved mutations per second."),
		PersistentPreRunE: bindFlags,
		RunE:              runBench,
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	BenchCmd.PersistentFlags().Int("writers", 4, util.WrapString("Number of concurrent writer goroutines"))
	BenchCmd.PersistentFlags().Int("ops", 10000, util.WrapString("Mutations per writer"))
	BenchCmd.PersistentFlags().Bool("print-metrics", false, util.WrapString("Dump the collected metrics in Prometheus text format after the run"))
}

func bindFlags(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	logging.InitLoggers(viper.GetString("log-level"))
	return nil
}

func runBench(_ *cobra.Command, _ []string) error {
	writers := viper.GetInt("writers")
	ops := viper.GetInt("ops")

	inline := omap.New[string, int](nil)
	defer inline.Close()
	fmt.Printf("inline:    %s\n", measure(inline, writers, ops))

	// both marshaled maps share one home goroutine, the way two views of
	// one document would
	home := executor.NewLoopExecutor()
	defer home.Close()

	opts := omap.DefaultOptions()
	opts.Marshaled = true
	opts.Executor = home
	marshaled := omap.New[string, int](opts)
	fmt.Printf("marshaled: %s\n", measure(marshaled, writers, ops))

	if viper.GetBool("print-metrics") {
		vm.WritePrometheus(os.Stdout, false)
	}
	return nil
}

// measure runs writers*ops mutations and reports the throughput
func measure(m *omap.Map[string, int], writers, ops int) string {
	start := time.Now()

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < ops; i++ {
				key := fmt.Sprintf("w%d-k%d", w, i%100)
				if i%3 == 2 {
					m.Remove(key)
				} else {
					m.Set(key, i)
				}
			}
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)
	total := writers * ops
	return fmt.Sprintf("%d ops in %v (%.0f ops/sec)",
		total, elapsed.Round(time.Millisecond), float64(total)/elapsed.Seconds())
}
