// Package control implements the UI<->engine command channel and the
// shared EnabledSports toggle map (spec §6 "small command channel
// {Pause, Resume, Quit}" and §5's concurrency table entry for
// EnabledSports: "writers=UI toggle+config loader, readers=engine+UI,
// discipline=mutex+persistence on write").
package control

import (
	"sync"

	"github.com/arbengine/engine/internal/config"
	"github.com/arbengine/engine/internal/sport"
)

// Command is one UI->engine control message (spec §6).
type Command int

const (
	Pause Command = iota
	Resume
	Quit
)

// Controller holds the command channel and the EnabledSports toggle
// map. The engine tick loop selects on Commands() at every suspension
// point (spec §5 "shutdown via single quit command checked at every
// suspension point"; the sleep-until-next-game wait is one such point,
// spec §4.5).
type Controller struct {
	commands chan Command

	mu           sync.Mutex
	enabled      map[sport.Sport]bool
	configPath   string
}

// New returns a Controller seeded with the given initial sport toggles
// (from config). configPath is the YAML file config.SaveSports writes
// back to when a toggle changes via SetEnabled.
func New(initial map[sport.Sport]bool, configPath string) *Controller {
	enabled := make(map[sport.Sport]bool, len(initial))
	for s, on := range initial {
		enabled[s] = on
	}
	return &Controller{
		commands:   make(chan Command, 4),
		enabled:    enabled,
		configPath: configPath,
	}
}

// Commands returns the channel the engine tick loop selects on.
func (c *Controller) Commands() <-chan Command {
	return c.commands
}

// Send enqueues a command from the UI. Non-blocking: a full queue
// drops the oldest pending command in favor of the newest (spec §5
// backpressure policy, applied here to the control channel).
func (c *Controller) Send(cmd Command) {
	select {
	case c.commands <- cmd:
	default:
		select {
		case <-c.commands:
		default:
		}
		c.commands <- cmd
	}
}

// IsEnabled reports whether s is currently toggled on.
func (c *Controller) IsEnabled(s sport.Sport) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled[s]
}

// Enabled returns a clone of the full toggle map.
func (c *Controller) Enabled() map[sport.Sport]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[sport.Sport]bool, len(c.enabled))
	for s, on := range c.enabled {
		out[s] = on
	}
	return out
}

// SetEnabled toggles s and persists the full sports section back to
// the YAML config file, preserving every other section (spec §6).
// Engine and UI observe the change on their next read of Enabled.
func (c *Controller) SetEnabled(s sport.Sport, on bool) error {
	c.mu.Lock()
	c.enabled[s] = on
	snapshot := make(map[string]bool, len(c.enabled))
	for sp, v := range c.enabled {
		snapshot[string(sp)] = v
	}
	c.mu.Unlock()

	if c.configPath == "" {
		return nil
	}
	return config.SaveSports(c.configPath, snapshot)
}
