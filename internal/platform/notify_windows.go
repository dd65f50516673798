//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// toastScript builds a PowerShell toast for title and body, with an image
// when icon is set.
func toastScript(title, body, icon string) string {
	tmpl := "ToastText02"
	if icon != "" {
		tmpl = "ToastImageAndText02"
	}
	var sb strings.Builder
	sb.WriteString("[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType=Windows Runtime] > $null; ")
	fmt.Fprintf(&sb, "$t = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::%s); ", tmpl)
	sb.WriteString(`$x = $t.GetElementsByTagName("text"); `)
	fmt.Fprintf(&sb, "$x.Item(0).AppendChild($t.CreateTextNode(%s)) > $null; ", psQuote(title))
	fmt.Fprintf(&sb, "$x.Item(1).AppendChild($t.CreateTextNode(%s)) > $null; ", psQuote(body))
	if icon != "" {
		fmt.Fprintf(&sb, `$t.GetElementsByTagName("image").Item(0).SetAttribute("src", %s); `, psQuote(icon))
	}
	fmt.Fprintf(&sb, "[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(%s).Show([Windows.UI.Notifications.ToastNotification]::new($t));", psQuote(appName))
	return sb.String()
}

// Notify shows a toast through PowerShell.
func Notify(title, body string, opts Options) error {
	script := toastScript(title, body, strings.TrimSpace(opts.IconPath))
	return exec.Command("powershell.exe", "-NoProfile", "-Command", script).Run()
}
