package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"jeongsan/config"
	"jeongsan/logging"
)

var (
	cfgFile string
	v       = config.New()
	// appConfig is loaded before any subcommand runs.
	appConfig *config.Config
)

var RootCmd = &cobra.Command{
	Use:   config.AppName,
	Short: "settle shared trip expenses",
	Long: `jeongsan creates group trips with a shared fund, tracks what the group spends and
works out who sends how much to the trip leader at the end.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		logging.Setup(c.Log.Level)
		appConfig = c
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml)")
	RootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	bindFlag(v, "log.level", RootCmd.PersistentFlags().Lookup("log-level"))

	RootCmd.AddCommand(serverCommand())
	RootCmd.AddCommand(migrateCommand())
	RootCmd.AddCommand(settleCommand())
	RootCmd.AddCommand(contribCommand())
	RootCmd.AddCommand(formatCommand())
}

// bindFlag ties a viper key to a flag; a missing flag is a setup bug.
func bindFlag(v *viper.Viper, key string, f *pflag.Flag) {
	if f == nil {
		panic("cmd: no flag for " + key)
	}
	if err := v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}
