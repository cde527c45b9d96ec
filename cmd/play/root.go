package play

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ValentinKolb/omap/cmd/util"
	"github.com/ValentinKolb/omap/lib/logging"
	"github.com/ValentinKolb/omap/lib/notify"
	"github.com/ValentinKolb/omap/lib/omap"
	"github.com/ValentinKolb/omap/lib/undo"
)

var (
	// PlayCmd represents the play command group
	PlayCmd = &cobra.Command{
		Use:               "play",
		Short:             "Run a scripted demo of the observable map",
		Long:              util.WrapString("Runs a scripted mutation sequence against an observable map, printing every change notification and demonstrating suppression coalescing and undo round-trips."),
		PersistentPreRunE: bindFlags,
		RunE:              runDemo,
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)
	util.SetupMapFlags(PlayCmd)

	PlayCmd.PersistentFlags().String("save-file", "", util.WrapString("If set, the final map state is written to this file using the selected serializer"))
}

func bindFlags(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	logging.InitLoggers(viper.GetString("log-level"))
	return nil
}

func runDemo(_ *cobra.Command, _ []string) error {
	recorder := undo.NewRecorder()

	opts := util.GetMapOptions()
	opts.Resolver = func() undo.IAccumulator { return recorder }

	m := omap.New[string, []byte](opts)
	defer m.Close()

	m.Subscribe(func(e notify.Event[string, []byte]) {
		fmt.Printf("  event: %s\n", e)
	})
	m.SubscribeCount(func(count int) {
		fmt.Printf("  count: %d\n", count)
	})

	fmt.Println("-- individual mutations --")
	m.Set("greeting", []byte("hello"))
	m.Set("greeting", []byte("hello, world"))
	if err := m.Add("answer", []byte("42")); err != nil {
		return err
	}
	m.Remove("greeting")

	fmt.Println("-- suppressed bulk load (one coalesced Reset) --")
	m.SuppressNotifications(true)
	for i := 0; i < 5; i++ {
		m.Set(fmt.Sprintf("bulk-%d", i), []byte{byte(i)})
	}
	m.SuppressNotifications(false)

	fmt.Println("-- undoing everything --")
	for {
		if _, ok := recorder.Undo(); !ok {
			break
		}
	}
	fmt.Printf("entries left after undo: %d\n", m.Count())

	// optionally persist the final state
	if path := viper.GetString("save-file"); path != "" {
		return saveTo(m, path)
	}
	return nil
}

func saveTo(m *omap.Map[string, []byte], path string) error {
	s, err := util.GetByteSerializer()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := m.Save(f, s); err != nil {
		return err
	}
	fmt.Printf("state written to %s (%s)\n", path, viper.GetString("serializer"))
	return nil
}
