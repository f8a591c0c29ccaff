package agent

import "github.com/spf13/cobra"

func initLogFileFlags(root *cobra.Command) {
	f := root.PersistentFlags()

	f.String("logfile.path", defaultCfg.LogFile.Path, "-> Engine log file to follow [LOG_FILE] (引擎日志文件)")
	f.Duration("logfile.sleep", defaultCfg.LogFile.Sleep, "-> Poll interval when no new data [SLEEP_TIME] (轮询间隔)")
	f.Bool("logfile.from-start", defaultCfg.LogFile.FromStart, "-> Read the file from the beginning (从文件开头读取)")
}
