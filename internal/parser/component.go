package parser

import (
	"sync"

	"esg-node-parser/internal/host"
	"esg-node-parser/internal/logger"
)

// Component ties a Parser's lifetime to a host registry
type Component struct {
	parser *Parser
	log    logger.ILogger

	mu           sync.Mutex
	registration *host.Registration
}

// NewComponent creates a component for p
func NewComponent(p *Parser, log logger.ILogger) *Component {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Component{parser: p, log: log}
}

// Activate registers the parser under its id
func (c *Component) Activate(registry *host.Registry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.registration != nil {
		return nil
	}
	reg, err := registry.Register(c.parser.ID(), c.parser)
	if err != nil {
		return err
	}
	c.registration = reg
	c.log.LogInfo("Registered parser %s", reg.ID())
	return nil
}

// Deactivate removes the registration. It is safe to call on an inactive component.
func (c *Component) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.registration == nil {
		return
	}
	c.registration.Unregister()
	c.log.LogInfo("Unregistered parser %s", c.registration.ID())
	c.registration = nil
}

// Active reports whether the parser is currently registered
func (c *Component) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registration != nil
}
