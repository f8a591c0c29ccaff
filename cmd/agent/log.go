package agent

import "github.com/spf13/cobra"

// initLogFlags 适配器自身日志（与被跟踪的引擎日志 logfile.* 区分）
func initLogFlags(root *cobra.Command) {
	f := root.PersistentFlags()

	f.String("log.level", defaultCfg.Log.Level, "-> Adapter log level [debug,info,warn,error] [LOG_LEVEL] | 日志级别")
	f.String("log.format", defaultCfg.Log.Format, "-> Console log format [console,json] [LOG_FORMAT] | 日志格式")
	f.String("log.path", defaultCfg.Log.Path, "-> Directory of the rotated adapter log [LOG_PATH] | 日志目录")
	f.Int("log.max-size", defaultCfg.Log.MaxSize, "-> Max size of single log file (MB) | 单文件最大MB")
	f.Int("log.max-backup", defaultCfg.Log.MaxBackup, "-> Number of log backup files | 备份数量")
	f.Int("log.max-age", defaultCfg.Log.MaxAge, "-> Maximum retention days of log files | 保存天数")
	f.Bool("log.compress", defaultCfg.Log.Compress, "-> Whether to compress expired log files | 是否压缩")
}
