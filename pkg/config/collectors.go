package config

import (
	"fmt"
	"strings"
)

// CollectorName 可通过配置禁用的采集器（封闭集合）
type CollectorName string

const (
	CronTriggers          CollectorName = "cron-triggers"
	EventTriggers         CollectorName = "event-triggers"
	ScheduledEvents       CollectorName = "scheduled-events"
	MetadataInconsistency CollectorName = "metadata-inconsistency"
)

// AdminCollectors 需要管理员凭证的采集器；缺少凭证时全部强制禁用
var AdminCollectors = []CollectorName{
	CronTriggers,
	EventTriggers,
	ScheduledEvents,
	MetadataInconsistency,
}

// ParseCollectorName 接受 cron-triggers / cron_triggers / CronTriggers 等写法
func ParseCollectorName(raw string) (CollectorName, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	for _, name := range AdminCollectors {
		if strings.ReplaceAll(string(name), "-", "") == key {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown collector %q (valid: %s)", raw, collectorList())
}

func collectorList() string {
	names := make([]string, len(AdminCollectors))
	for i, n := range AdminCollectors {
		names[i] = string(n)
	}
	return strings.Join(names, ", ")
}
