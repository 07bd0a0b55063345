package judge

import (
	"fmt"
	"slices"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
)

// Panel is an ordered, immutable set of judges with unique keys.
type Panel struct {
	judges []Judge
	byKey  map[string]Judge
}

func NewPanel(judges ...Judge) (*Panel, error) {
	if len(judges) == 0 {
		return nil, fmt.Errorf("judge panel is empty")
	}

	p := &Panel{
		judges: make([]Judge, 0, len(judges)),
		byKey:  make(map[string]Judge, len(judges)),
	}
	for _, j := range judges {
		key := j.Identity().Key
		if key == "" {
			return nil, fmt.Errorf("judge with empty key in panel")
		}
		if _, exists := p.byKey[key]; exists {
			return nil, fmt.Errorf("duplicate judge key %q in panel", key)
		}
		p.byKey[key] = j
		p.judges = append(p.judges, j)
	}
	return p, nil
}

func (p *Panel) Len() int {
	return len(p.judges)
}

func (p *Panel) Judges() []Judge {
	return slices.Clone(p.judges)
}

func (p *Panel) Get(key string) (Judge, bool) {
	j, ok := p.byKey[key]
	return j, ok
}

// Keys returns judge keys in panel order.
func (p *Panel) Keys() []string {
	keys := make([]string, 0, len(p.judges))
	for _, j := range p.judges {
		keys = append(keys, j.Identity().Key)
	}
	return keys
}

func (p *Panel) Identities() []models.JudgeIdentity {
	ids := make([]models.JudgeIdentity, 0, len(p.judges))
	for _, j := range p.judges {
		ids = append(ids, j.Identity())
	}
	return ids
}
