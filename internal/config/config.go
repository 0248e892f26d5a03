package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Storage settings
	DBPath   string
	ICSFiles []string
	LogFile  string

	// Display settings
	Title        string
	Accent       string
	WeekStartDay time.Weekday
	TimeFormat   string
	DateFormat   string

	// UI settings
	Colors      map[string]string
	KeyBindings map[string]string

	// Behavior settings
	AutoSave        bool
	ConfirmDelete   bool
	HoverOpenDelay  time.Duration
	HoverCloseDelay time.Duration
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		DBPath:   filepath.Join(home, ".campuscal.db"),
		ICSFiles: []string{},
		LogFile:  filepath.Join(home, ".campuscal.log"),

		Title:        "Campus Calendar",
		Accent:       "blue",
		WeekStartDay: time.Sunday,
		TimeFormat:   "15:04",
		DateFormat:   "Jan 2, 2006",

		Colors: map[string]string{
			"normal":   "default",
			"today":    "yellow",
			"selected": "reverse",
			"weekend":  "blue",
			"pinned":   "magenta",
			"dimmed":   "gray",
			"header":   "bold",
		},

		KeyBindings: map[string]string{
			"quit":       "q",
			"help":       "?",
			"today":      "t",
			"pin":        "p",
			"open_day":   "enter",
			"add_event":  "a",
			"add_multi":  "A",
			"delete":     "d",
			"next_day":   "l",
			"prev_day":   "h",
			"next_week":  "j",
			"prev_week":  "k",
			"next_month": ">",
			"prev_month": "<",
			"close":      "esc",
		},

		AutoSave:        true,
		ConfirmDelete:   true,
		HoverOpenDelay:  300 * time.Millisecond,
		HoverCloseDelay: 400 * time.Millisecond,
	}
}

func LoadConfig() (*Config, error) {
	config := DefaultConfig()

	// Try multiple config file locations
	configPaths := []string{
		os.Getenv("CAMPUSCAL_CONFIG"),
		filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "campuscal", "campuscalrc"),
		filepath.Join(os.Getenv("HOME"), ".config", "campuscal", "campuscalrc"),
		filepath.Join(os.Getenv("HOME"), ".campuscalrc"),
	}

	for _, path := range configPaths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); err == nil {
			if err := config.loadFromFile(path); err != nil {
				return nil, fmt.Errorf("error loading config from %s: %w", path, err)
			}
			break
		}
	}

	return config, nil
}

// LoadConfigFile loads defaults overridden by one explicit file.
func LoadConfigFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := config.loadFromFile(path); err != nil {
		return nil, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	return config, nil
}

func (c *Config) loadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := c.parseLine(line); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	return scanner.Err()
}

func (c *Config) parseLine(line string) error {
	// Handle set commands: set variable value
	setRe := regexp.MustCompile(`^set\s+(\w+)\s+(.+)$`)
	if matches := setRe.FindStringSubmatch(line); matches != nil {
		return c.setVariable(matches[1], matches[2])
	}

	// Handle bind commands: bind key action
	bindRe := regexp.MustCompile(`^bind\s+(\S+)\s+(\S+)$`)
	if matches := bindRe.FindStringSubmatch(line); matches != nil {
		c.KeyBindings[matches[2]] = matches[1]
		return nil
	}

	// Handle color commands: color element color_spec
	colorRe := regexp.MustCompile(`^color\s+(\w+)\s+(.+)$`)
	if matches := colorRe.FindStringSubmatch(line); matches != nil {
		c.Colors[matches[1]] = matches[2]
		return nil
	}

	return fmt.Errorf("unknown config line: %s", line)
}

func (c *Config) setVariable(name, value string) error {
	// Remove quotes if present
	value = strings.Trim(value, `"'`)

	switch name {
	case "db_path":
		c.DBPath = expandHome(value)

	case "ics_file", "ics_files":
		// Handle multiple files separated by commas
		files := strings.Split(value, ",")
		for i, file := range files {
			files[i] = expandHome(strings.TrimSpace(file))
		}
		c.ICSFiles = files

	case "log_file":
		c.LogFile = expandHome(value)

	case "title":
		c.Title = value

	case "accent":
		c.Accent = value

	case "week_start_day":
		switch strings.ToLower(value) {
		case "sunday", "sun", "0":
			c.WeekStartDay = time.Sunday
		case "monday", "mon", "1":
			c.WeekStartDay = time.Monday
		default:
			return fmt.Errorf("invalid week_start_day: %s", value)
		}

	case "time_format":
		c.TimeFormat = value

	case "date_format":
		c.DateFormat = value

	case "auto_save":
		c.AutoSave = strings.ToLower(value) == "true" || value == "1"

	case "confirm_delete":
		c.ConfirmDelete = strings.ToLower(value) == "true" || value == "1"

	case "hover_open_delay":
		d, err := parseDelay(value)
		if err != nil {
			return fmt.Errorf("invalid hover_open_delay: %s", value)
		}
		c.HoverOpenDelay = d

	case "hover_close_delay":
		d, err := parseDelay(value)
		if err != nil {
			return fmt.Errorf("invalid hover_close_delay: %s", value)
		}
		c.HoverCloseDelay = d

	default:
		return fmt.Errorf("unknown config variable: %s", name)
	}

	return nil
}

// parseDelay accepts a Go duration string or a bare millisecond count.
func parseDelay(value string) (time.Duration, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	ms, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
