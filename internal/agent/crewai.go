package agent

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/agentgamelab/pdbench/internal/completion"
	"github.com/agentgamelab/pdbench/internal/config"
)

// CrewAI is an LLM agent whose persona text is assembled from a structured
// role/goal/backstory profile rather than a raw persona fragment.
type CrewAI struct {
	*LLM
}

// NewCrewAI constructs a CrewAI agent. The profile is resolved inline
// (cfg.Role/Goal/Backstory all set) or from cfg.AgentsFile+cfg.AgentKey, a
// shared YAML document of named profiles, in that order of precedence.
func NewCrewAI(cfg config.CrewAIAgentConfig, client completion.Client, basePath string) (*CrewAI, error) {
	profile, err := resolveCrewAIProfile(cfg, basePath)
	if err != nil {
		return nil, err
	}
	personaText := formatPersonaText(profile)

	llmConfig := cfg.AsLLMAgentConfig()
	inner, err := NewLLM(llmConfig, client, basePath)
	if err != nil {
		return nil, err
	}
	inner.personaText = personaText

	return &CrewAI{LLM: inner}, nil
}

type crewAIProfile struct {
	role, goal, backstory string
}

func resolveCrewAIProfile(cfg config.CrewAIAgentConfig, basePath string) (crewAIProfile, error) {
	if cfg.Role != nil && cfg.Goal != nil && cfg.Backstory != nil {
		return crewAIProfile{
			role:      strings.TrimSpace(*cfg.Role),
			goal:      strings.TrimSpace(*cfg.Goal),
			backstory: strings.TrimSpace(*cfg.Backstory),
		}, nil
	}

	if cfg.AgentsFile == nil || cfg.AgentKey == nil {
		return crewAIProfile{}, fmt.Errorf(
			"agent: crewai agent must have either inline role/goal/backstory or agents_file + agent_key")
	}

	path := filepath.Join(basePath, "configs", *cfg.AgentsFile)
	profiles, err := config.LoadAgentProfiles(path)
	if err != nil {
		return crewAIProfile{}, err
	}

	profile, ok := profiles[*cfg.AgentKey]
	if !ok {
		return crewAIProfile{}, fmt.Errorf("agent: agent key %q not found in %s", *cfg.AgentKey, path)
	}
	return crewAIProfile{
		role:      strings.TrimSpace(profile.Role),
		goal:      strings.TrimSpace(profile.Goal),
		backstory: strings.TrimSpace(profile.Backstory),
	}, nil
}

func formatPersonaText(p crewAIProfile) string {
	return fmt.Sprintf("**Role:** %s\n**Goal:** %s\n**Backstory:** %s", p.role, p.goal, p.backstory)
}
