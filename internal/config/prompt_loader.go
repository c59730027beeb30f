package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// GetLoadedPrompts returns the loaded prompt content in a thread-safe way
func GetLoadedPrompts() *AllLoadedPrompts {
	return &loadedPrompts
}

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	// Initialize loaded prompts exactly once
	loadedPromptsOnce.Do(func() {
		loadedPrompts = AllLoadedPrompts{}
	})

	// Load global prompts
	if err := c.loadSystemPromptsFromFiles(&c.AI.CustomPrompts.SystemPrompts, &loadedPrompts.Global.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load global system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.CustomPrompts.UserPrompts, &loadedPrompts.Global.UserPrompts); err != nil {
		return fmt.Errorf("failed to load global user prompts: %w", err)
	}

	// Load operation-specific prompts
	if err := c.loadSystemPromptsFromFiles(&c.AI.Analyze.CustomPrompts.SystemPrompts, &loadedPrompts.Analyze.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load analyze system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Analyze.CustomPrompts.UserPrompts, &loadedPrompts.Analyze.UserPrompts); err != nil {
		return fmt.Errorf("failed to load analyze user prompts: %w", err)
	}

	if err := c.loadSystemPromptsFromFiles(&c.AI.Rescore.CustomPrompts.SystemPrompts, &loadedPrompts.Rescore.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load rescore system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Rescore.CustomPrompts.UserPrompts, &loadedPrompts.Rescore.UserPrompts); err != nil {
		return fmt.Errorf("failed to load rescore user prompts: %w", err)
	}

	if err := c.loadSystemPromptsFromFiles(&c.AI.Interview.CustomPrompts.SystemPrompts, &loadedPrompts.Interview.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load interview system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Interview.CustomPrompts.UserPrompts, &loadedPrompts.Interview.UserPrompts); err != nil {
		return fmt.Errorf("failed to load interview user prompts: %w", err)
	}

	// Log summary of prompt sources after loading
	c.logPromptLoadingSummary()

	return nil
}

// loadSystemPromptsFromFiles loads system prompts from files if file paths are specified
func (c *Config) loadSystemPromptsFromFiles(prompts *SystemPrompts, target *LoadedSystemPrompts) error {
	if prompts.AnalyzeResumeFile != "" {
		content, err := c.loadPromptFromFile(prompts.AnalyzeResumeFile, "system", "analyzeResume")
		if err != nil {
			return err
		}
		target.AnalyzeResume = content
	}

	if prompts.RescoreCriterionFile != "" {
		content, err := c.loadPromptFromFile(prompts.RescoreCriterionFile, "system", "rescoreCriterion")
		if err != nil {
			return err
		}
		target.RescoreCriterion = content
	}

	if prompts.InterviewReplyFile != "" {
		content, err := c.loadPromptFromFile(prompts.InterviewReplyFile, "system", "interviewReply")
		if err != nil {
			return err
		}
		target.InterviewReply = content
	}

	return nil
}

// loadUserPromptsFromFiles loads user prompts from files if file paths are specified
func (c *Config) loadUserPromptsFromFiles(prompts *UserPrompts, target *LoadedUserPrompts) error {
	if prompts.AnalyzeResumeFile != "" {
		content, err := c.loadPromptFromFile(prompts.AnalyzeResumeFile, "user", "analyzeResume")
		if err != nil {
			return err
		}
		target.AnalyzeResume = content
	}

	if prompts.RescoreCriterionFile != "" {
		content, err := c.loadPromptFromFile(prompts.RescoreCriterionFile, "user", "rescoreCriterion")
		if err != nil {
			return err
		}
		target.RescoreCriterion = content
	}

	if prompts.InterviewReplyFile != "" {
		content, err := c.loadPromptFromFile(prompts.InterviewReplyFile, "user", "interviewReply")
		if err != nil {
			return err
		}
		target.InterviewReply = content
	}

	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func (c *Config) loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	// Resolve relative paths
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	// Check if file exists
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
	}

	// Read file content
	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	// Validate content is not empty
	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	// Log successful loading
	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles validates that prompt files exist and are readable before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	// Helper function to validate a file path
	validateFile := func(filePath, promptType, operation string) {
		if filePath == "" {
			return // No file specified, skip validation
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", promptType, operation, filePath))
			return
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", promptType, operation, absPath))
		}
	}

	// Validate global prompt files
	validateFile(c.AI.CustomPrompts.SystemPrompts.AnalyzeResumeFile, "system", "analyzeResume")
	validateFile(c.AI.CustomPrompts.SystemPrompts.RescoreCriterionFile, "system", "rescoreCriterion")
	validateFile(c.AI.CustomPrompts.SystemPrompts.InterviewReplyFile, "system", "interviewReply")
	validateFile(c.AI.CustomPrompts.UserPrompts.AnalyzeResumeFile, "user", "analyzeResume")
	validateFile(c.AI.CustomPrompts.UserPrompts.RescoreCriterionFile, "user", "rescoreCriterion")
	validateFile(c.AI.CustomPrompts.UserPrompts.InterviewReplyFile, "user", "interviewReply")

	// Validate operation-specific prompt files
	validateFile(c.AI.Analyze.CustomPrompts.SystemPrompts.AnalyzeResumeFile, "analyze system", "analyzeResume")
	validateFile(c.AI.Analyze.CustomPrompts.UserPrompts.AnalyzeResumeFile, "analyze user", "analyzeResume")
	validateFile(c.AI.Rescore.CustomPrompts.SystemPrompts.RescoreCriterionFile, "rescore system", "rescoreCriterion")
	validateFile(c.AI.Rescore.CustomPrompts.UserPrompts.RescoreCriterionFile, "rescore user", "rescoreCriterion")
	validateFile(c.AI.Interview.CustomPrompts.SystemPrompts.InterviewReplyFile, "interview system", "interviewReply")
	validateFile(c.AI.Interview.CustomPrompts.UserPrompts.InterviewReplyFile, "interview user", "interviewReply")

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// logPromptLoadingSummary logs a summary of loaded prompts
func (c *Config) logPromptLoadingSummary() {
	log.Println("[CONFIG] === Custom Prompt Loading Summary ===")

	promptCount := 0

	promptChecks := []struct {
		content string
		message string
	}{
		{loadedPrompts.Global.SystemPrompts.AnalyzeResume, "[CONFIG] Global system analyze prompt: loaded from config/file"},
		{loadedPrompts.Global.SystemPrompts.RescoreCriterion, "[CONFIG] Global system rescore prompt: loaded from config/file"},
		{loadedPrompts.Global.SystemPrompts.InterviewReply, "[CONFIG] Global system interview prompt: loaded from config/file"},
		{loadedPrompts.Global.UserPrompts.AnalyzeResume, "[CONFIG] Global user analyze prompt: loaded from config/file"},
		{loadedPrompts.Global.UserPrompts.RescoreCriterion, "[CONFIG] Global user rescore prompt: loaded from config/file"},
		{loadedPrompts.Global.UserPrompts.InterviewReply, "[CONFIG] Global user interview prompt: loaded from config/file"},
		{loadedPrompts.Analyze.SystemPrompts.AnalyzeResume, "[CONFIG] Analyze-specific system prompt: loaded from config/file"},
		{loadedPrompts.Analyze.UserPrompts.AnalyzeResume, "[CONFIG] Analyze-specific user prompt: loaded from config/file"},
		{loadedPrompts.Rescore.SystemPrompts.RescoreCriterion, "[CONFIG] Rescore-specific system prompt: loaded from config/file"},
		{loadedPrompts.Rescore.UserPrompts.RescoreCriterion, "[CONFIG] Rescore-specific user prompt: loaded from config/file"},
		{loadedPrompts.Interview.SystemPrompts.InterviewReply, "[CONFIG] Interview-specific system prompt: loaded from config/file"},
		{loadedPrompts.Interview.UserPrompts.InterviewReply, "[CONFIG] Interview-specific user prompt: loaded from config/file"},
	}

	for _, check := range promptChecks {
		if check.content != "" {
			log.Println(check.message)
			promptCount++
		}
	}

	if promptCount == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", promptCount)
	}

	log.Println("[CONFIG] ==========================================")
}
