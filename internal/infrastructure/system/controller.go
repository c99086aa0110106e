// Package system is the local desktop actuator: it launches and closes
// applications, answers system-stat queries, performs gated file operations
// and records reminders.
package system

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/doeshing/aida-go/internal/domain"
	"github.com/doeshing/aida-go/internal/ports"
)

// commonApps maps spoken application names to executables. Unknown names
// fall through to a PATH lookup.
var commonApps = map[string]string{
	"calculator": "gnome-calculator",
	"notepad":    "gedit",
	"editor":     "gedit",
	"browser":    "firefox",
	"terminal":   "gnome-terminal",
	"files":      "nautilus",
	"explorer":   "nautilus",
	"music":      "rhythmbox",
}

// LocalController implements ports.SystemController against the host desktop.
type LocalController struct {
	logger ports.Logger
	// dataDir holds reminder storage, typically ~/.aida.
	dataDir string
}

func NewLocalController(dataDir string, logger ports.Logger) *LocalController {
	return &LocalController{dataDir: dataDir, logger: logger}
}

func (c *LocalController) Execute(ctx context.Context, cmd domain.Command) (domain.ExecutionResult, error) {
	start := time.Now()

	var detail string
	var err error
	switch cmd.Kind {
	case domain.ActionLaunchApp:
		detail, err = c.launchApp(ctx, cmd.Target["app"])
	case domain.ActionCloseApp:
		detail, err = c.closeApp(ctx, cmd.Target["app"])
	case domain.ActionQuerySystemStat:
		detail, err = c.systemStat(cmd.Target["stat"])
	case domain.ActionFileOp:
		detail, err = c.fileOp(cmd.Target)
	case domain.ActionSetReminder:
		detail, err = c.setReminder(cmd.Target["task"])
	default:
		err = fmt.Errorf("cannot execute %s command", cmd.Kind)
	}

	result := domain.ExecutionResult{
		Ran:      err == nil,
		Detail:   detail,
		Duration: time.Since(start),
		Err:      err,
	}
	if err != nil {
		return result, err
	}
	c.logger.Info("command executed", map[string]interface{}{
		"kind":   string(cmd.Kind),
		"detail": detail,
	})
	return result, nil
}

func (c *LocalController) launchApp(ctx context.Context, app string) (string, error) {
	executable, err := resolveExecutable(app)
	if err != nil {
		return "", err
	}
	launch := exec.CommandContext(ctx, executable)
	if err := launch.Start(); err != nil {
		return "", fmt.Errorf("launch %s: %w", app, err)
	}
	// Detach so the assistant process never waits on the desktop app.
	if launch.Process != nil {
		_ = launch.Process.Release()
	}
	return fmt.Sprintf("launched %s", app), nil
}

func (c *LocalController) closeApp(ctx context.Context, app string) (string, error) {
	executable, err := resolveExecutable(app)
	if err != nil {
		return "", err
	}

	name := filepath.Base(executable)
	var kill *exec.Cmd
	if runtime.GOOS == "windows" {
		kill = exec.CommandContext(ctx, "taskkill", "/IM", name)
	} else {
		kill = exec.CommandContext(ctx, "pkill", "-x", name)
	}
	if err := kill.Run(); err != nil {
		return "", fmt.Errorf("close %s: %w", app, err)
	}
	return fmt.Sprintf("closed %s", app), nil
}

func resolveExecutable(app string) (string, error) {
	app = strings.ToLower(strings.TrimSpace(app))
	if app == "" {
		return "", fmt.Errorf("no application named")
	}
	candidate := app
	if mapped, ok := commonApps[app]; ok {
		candidate = mapped
	}
	path, err := exec.LookPath(candidate)
	if err != nil {
		return "", fmt.Errorf("application %q not found", app)
	}
	return path, nil
}

func (c *LocalController) systemStat(stat string) (string, error) {
	switch stat {
	case "cpu":
		return fmt.Sprintf("%d CPU cores, load %s", runtime.NumCPU(), loadAverage()), nil
	case "memory":
		return memoryUsage(), nil
	case "disk":
		return diskUsage()
	default:
		return fmt.Sprintf("%s/%s, %d CPU cores, load %s, %s",
			runtime.GOOS, runtime.GOARCH, runtime.NumCPU(), loadAverage(), memoryUsage()), nil
	}
}

func loadAverage() string {
	data, err := os.ReadFile("/proc/loadavg")
	if err != nil {
		return "unavailable"
	}
	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return "unavailable"
	}
	return strings.Join(fields[:3], " ")
}

func memoryUsage() string {
	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return "memory unavailable"
	}
	var totalKB, availableKB int64
	for _, line := range strings.Split(string(data), "\n") {
		var value int64
		if _, err := fmt.Sscanf(line, "MemTotal: %d kB", &value); err == nil {
			totalKB = value
		}
		if _, err := fmt.Sscanf(line, "MemAvailable: %d kB", &value); err == nil {
			availableKB = value
		}
	}
	if totalKB == 0 {
		return "memory unavailable"
	}
	usedMB := (totalKB - availableKB) / 1024
	return fmt.Sprintf("memory %d/%d MB used", usedMB, totalKB/1024)
}

func diskUsage() (string, error) {
	out, err := exec.Command("df", "-h", "/").Output()
	if err != nil {
		return "", fmt.Errorf("disk usage: %w", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) < 2 {
		return "", fmt.Errorf("disk usage: unexpected df output")
	}
	return "disk " + strings.Join(strings.Fields(lines[1]), " "), nil
}

// fileOp handles create and delete on files and folders. Paths are resolved
// under the user's home directory; these commands always pass through the
// gate's danger dampening first.
func (c *LocalController) fileOp(target map[string]string) (string, error) {
	op := target["op"]
	object := target["object"]
	path, err := resolvePath(target["path"])
	if err != nil {
		return "", err
	}

	switch op {
	case "create", "make":
		if object == "file" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
			if err != nil {
				return "", fmt.Errorf("create file: %w", err)
			}
			f.Close()
			return fmt.Sprintf("created file %s", path), nil
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return "", fmt.Errorf("create folder: %w", err)
		}
		return fmt.Sprintf("created folder %s", path), nil
	case "delete", "remove":
		if object == "file" {
			if err := os.Remove(path); err != nil {
				return "", fmt.Errorf("delete file: %w", err)
			}
			return fmt.Sprintf("deleted file %s", path), nil
		}
		if err := os.RemoveAll(path); err != nil {
			return "", fmt.Errorf("delete folder: %w", err)
		}
		return fmt.Sprintf("deleted folder %s", path), nil
	default:
		return "", fmt.Errorf("file operation %q is not supported", op)
	}
}

func resolvePath(raw string) (string, error) {
	raw = strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"'`))
	if raw == "" {
		return "", fmt.Errorf("no path given")
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, raw), nil
}

func (c *LocalController) setReminder(task string) (string, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return "", fmt.Errorf("no reminder text")
	}
	if err := os.MkdirAll(c.dataDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(c.dataDir, "reminders.txt")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "%s\t%s\n", time.Now().Format(time.RFC3339), task); err != nil {
		return "", err
	}
	return fmt.Sprintf("reminder saved: %s", task), nil
}

var _ ports.SystemController = (*LocalController)(nil)
