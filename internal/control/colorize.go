package control

import "github.com/pizlonator/yo/internal/yoconfig"

func colorize(settings yoconfig.Settings, text string) string {
	return yoconfig.Colorize(text, settings.ChatColor)
}
