package util

import (
	"fmt"
	"io"
	"os"

	"github.com/common-nighthawk/go-figure"
)

// ANSI 颜色
const (
	ColorReset  = "\x1b[0m"
	ColorRed    = "\x1b[1;31m"
	ColorGreen  = "\x1b[1;32m"
	ColorYellow = "\x1b[1;33m"
	ColorBlue   = "\x1b[1;34m"
	ColorCyan   = "\x1b[1;36m"
)

var colors = map[string]string{
	"ColorRed":    ColorRed,
	"ColorGreen":  ColorGreen,
	"ColorYellow": ColorYellow,
	"ColorBlue":   ColorBlue,
	"ColorCyan":   ColorCyan,
}

// colorCode 未知颜色名退回 ColorReset（不着色）
func colorCode(name string) string {
	if c, ok := colors[name]; ok {
		return c
	}
	return ColorReset
}

// RenderBanner 生成 ASCII banner 的各行，末尾附加一行说明（可为空）
func RenderBanner(text, subtitle string) []string {
	lines := figure.NewFigure(text, "", true).Slicify()
	if subtitle != "" {
		lines = append(lines, subtitle)
	}
	return lines
}

// WriteBanner 以统一颜色写出 banner
func WriteBanner(w io.Writer, text, subtitle, color string) {
	ansiColor := colorCode(color)
	for _, line := range RenderBanner(text, subtitle) {
		fmt.Fprintln(w, ansiColor+line+ColorReset)
	}
}

// PrintBanner 打印到标准输出
func PrintBanner(text, subtitle, color string) {
	WriteBanner(os.Stdout, text, subtitle, color)
}
