package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetAnalyzeConfig returns the AI configuration for resume analysis with fallback to global config
func (c *Config) GetAnalyzeConfig() OperationAIConfig {
	config := c.AI.Analyze

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply analyze-specific prompt fallbacks
	if config.CustomPrompts.SystemPrompts.AnalyzeResume == "" {
		config.CustomPrompts.SystemPrompts.AnalyzeResume = c.AI.CustomPrompts.SystemPrompts.AnalyzeResume
	}
	if config.CustomPrompts.UserPrompts.AnalyzeResume == "" {
		config.CustomPrompts.UserPrompts.AnalyzeResume = c.AI.CustomPrompts.UserPrompts.AnalyzeResume
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.AnalyzeResumeFile == "" {
		config.CustomPrompts.SystemPrompts.AnalyzeResumeFile = c.AI.CustomPrompts.SystemPrompts.AnalyzeResumeFile
	}
	if config.CustomPrompts.UserPrompts.AnalyzeResumeFile == "" {
		config.CustomPrompts.UserPrompts.AnalyzeResumeFile = c.AI.CustomPrompts.UserPrompts.AnalyzeResumeFile
	}

	return config
}

// GetRescoreConfig returns the AI configuration for criterion rescoring with fallback to global config
func (c *Config) GetRescoreConfig() OperationAIConfig {
	config := c.AI.Rescore

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply rescore-specific prompt fallbacks
	if config.CustomPrompts.SystemPrompts.RescoreCriterion == "" {
		config.CustomPrompts.SystemPrompts.RescoreCriterion = c.AI.CustomPrompts.SystemPrompts.RescoreCriterion
	}
	if config.CustomPrompts.UserPrompts.RescoreCriterion == "" {
		config.CustomPrompts.UserPrompts.RescoreCriterion = c.AI.CustomPrompts.UserPrompts.RescoreCriterion
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.RescoreCriterionFile == "" {
		config.CustomPrompts.SystemPrompts.RescoreCriterionFile = c.AI.CustomPrompts.SystemPrompts.RescoreCriterionFile
	}
	if config.CustomPrompts.UserPrompts.RescoreCriterionFile == "" {
		config.CustomPrompts.UserPrompts.RescoreCriterionFile = c.AI.CustomPrompts.UserPrompts.RescoreCriterionFile
	}

	return config
}

// GetInterviewConfig returns the AI configuration for gap interview replies with fallback to global config
func (c *Config) GetInterviewConfig() OperationAIConfig {
	config := c.AI.Interview

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply interview-specific prompt fallbacks
	if config.CustomPrompts.SystemPrompts.InterviewReply == "" {
		config.CustomPrompts.SystemPrompts.InterviewReply = c.AI.CustomPrompts.SystemPrompts.InterviewReply
	}
	if config.CustomPrompts.UserPrompts.InterviewReply == "" {
		config.CustomPrompts.UserPrompts.InterviewReply = c.AI.CustomPrompts.UserPrompts.InterviewReply
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.InterviewReplyFile == "" {
		config.CustomPrompts.SystemPrompts.InterviewReplyFile = c.AI.CustomPrompts.SystemPrompts.InterviewReplyFile
	}
	if config.CustomPrompts.UserPrompts.InterviewReplyFile == "" {
		config.CustomPrompts.UserPrompts.InterviewReplyFile = c.AI.CustomPrompts.UserPrompts.InterviewReplyFile
	}

	return config
}

// GetLoadedAnalyzePrompts returns a copy of the loaded prompts for the analyze operation
func (c *Config) GetLoadedAnalyzePrompts() OperationLoadedPrompts {
	return loadedPrompts.Analyze
}

// GetLoadedRescorePrompts returns a copy of the loaded prompts for the rescore operation
func (c *Config) GetLoadedRescorePrompts() OperationLoadedPrompts {
	return loadedPrompts.Rescore
}

// GetLoadedInterviewPrompts returns a copy of the loaded prompts for the interview operation
func (c *Config) GetLoadedInterviewPrompts() OperationLoadedPrompts {
	return loadedPrompts.Interview
}

// GetLoadedGlobalPrompts returns a copy of the loaded global prompts
func (c *Config) GetLoadedGlobalPrompts() LoadedPrompts {
	return loadedPrompts.Global
}
