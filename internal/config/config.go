package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone  = "UTC"
	configPathEnv    = "NEWS_DIGEST_CONFIG"
	databasePathEnv  = "DATABASE_PATH"
	llmAPIKeyEnv     = "ANTHROPIC_API_KEY"
	smtpPasswordEnv  = "SMTP_PASSWORD"
	smtpUsernameEnv  = "SMTP_USERNAME"
	emailToEnv       = "DIGEST_EMAIL_TO"
	transcriptKeyEnv = "TRANSCRIPT_API_KEY"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database    DatabaseConfig   `yaml:"database"`
	Scheduler   SchedulerConfig  `yaml:"scheduler"`
	Sources     SourceConfig     `yaml:"sources"`
	LLM         LLMConfig        `yaml:"llm"`
	Email       EmailConfig      `yaml:"email"`
	Transcripts TranscriptConfig `yaml:"transcripts"`
	Profile     ProfileConfig    `yaml:"profile"`
	Pipeline    PipelineConfig   `yaml:"pipeline"`
	Logging     LoggingConfig    `yaml:"logging"`
}

// DatabaseConfig locates the SQLite database file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SchedulerConfig defines when the full pipeline should run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// SourceConfig lists the upstream feeds to monitor.
type SourceConfig struct {
	YouTubeChannels  []string   `yaml:"youtubeChannels"`
	OpenAIFeed       string     `yaml:"openaiFeed"`
	AnthropicFeeds   []FeedSpec `yaml:"anthropicFeeds"`
	FetchFullContent bool       `yaml:"fetchFullContent"`
}

// FeedSpec names one RSS feed endpoint.
type FeedSpec struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// LLMConfig defines how to contact the language-model API.
type LLMConfig struct {
	APIKey     string        `yaml:"apiKey"`
	Summarizer AgentSettings `yaml:"summarizer"`
	Ranker     AgentSettings `yaml:"ranker"`
	Drafter    AgentSettings `yaml:"drafter"`
}

// AgentSettings tunes one model call.
type AgentSettings struct {
	MaxTokens   int     `yaml:"maxTokens"`
	Temperature float64 `yaml:"temperature"`
}

// EmailConfig wires all data required to deliver the digest email.
type EmailConfig struct {
	SMTPHost string `yaml:"smtpHost"`
	SMTPPort int    `yaml:"smtpPort"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// TranscriptConfig describes the external transcript API.
type TranscriptConfig struct {
	APIURL  string `yaml:"apiUrl"`
	APIKey  string `yaml:"apiKey"`
	Retries int    `yaml:"retries"`
}

// ProfileConfig locates the ranking profile definition on disk.
type ProfileConfig struct {
	Path string `yaml:"path"`
}

// PipelineConfig carries the default run parameters.
type PipelineConfig struct {
	Hours int `yaml:"hours"`
	Limit int `yaml:"limit"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(smtpUsernameEnv); v != "" {
		c.Email.Username = v
	}

	if v := os.Getenv(smtpPasswordEnv); v != "" {
		c.Email.Password = v
	}

	if v := os.Getenv(emailToEnv); v != "" {
		c.Email.To = v
	}

	if v := os.Getenv(transcriptKeyEnv); v != "" {
		c.Transcripts.APIKey = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if len(override.Sources.YouTubeChannels) > 0 {
		base.Sources.YouTubeChannels = override.Sources.YouTubeChannels
	}
	if override.Sources.OpenAIFeed != "" {
		base.Sources.OpenAIFeed = override.Sources.OpenAIFeed
	}
	if len(override.Sources.AnthropicFeeds) > 0 {
		base.Sources.AnthropicFeeds = override.Sources.AnthropicFeeds
	}
	if override.Sources.FetchFullContent {
		base.Sources.FetchFullContent = true
	}

	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	base.LLM.Summarizer = mergeAgent(base.LLM.Summarizer, override.LLM.Summarizer)
	base.LLM.Ranker = mergeAgent(base.LLM.Ranker, override.LLM.Ranker)
	base.LLM.Drafter = mergeAgent(base.LLM.Drafter, override.LLM.Drafter)

	if override.Email.SMTPHost != "" {
		base.Email.SMTPHost = override.Email.SMTPHost
	}
	if override.Email.SMTPPort != 0 {
		base.Email.SMTPPort = override.Email.SMTPPort
	}
	if override.Email.Username != "" {
		base.Email.Username = override.Email.Username
	}
	if override.Email.Password != "" {
		base.Email.Password = override.Email.Password
	}
	if override.Email.From != "" {
		base.Email.From = override.Email.From
	}
	if override.Email.To != "" {
		base.Email.To = override.Email.To
	}

	if override.Transcripts.APIURL != "" {
		base.Transcripts.APIURL = override.Transcripts.APIURL
	}
	if override.Transcripts.APIKey != "" {
		base.Transcripts.APIKey = override.Transcripts.APIKey
	}
	if override.Transcripts.Retries != 0 {
		base.Transcripts.Retries = override.Transcripts.Retries
	}

	if override.Profile.Path != "" {
		base.Profile = override.Profile
	}

	if override.Pipeline.Hours != 0 {
		base.Pipeline.Hours = override.Pipeline.Hours
	}
	if override.Pipeline.Limit != 0 {
		base.Pipeline.Limit = override.Pipeline.Limit
	}

	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	return base
}

func mergeAgent(base, override AgentSettings) AgentSettings {
	if override.MaxTokens != 0 {
		base.MaxTokens = override.MaxTokens
	}
	if override.Temperature != 0 {
		base.Temperature = override.Temperature
	}
	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Database:  DatabaseConfig{Path: "data/newsdigest.db"},
		Scheduler: SchedulerConfig{CronExpression: "0 7 * * *", Timezone: defaultTimezone, location: tz},
		Sources: SourceConfig{
			OpenAIFeed: "https://openai.com/news/rss.xml",
			AnthropicFeeds: []FeedSpec{
				{Name: "anthropic-news", URL: "https://rsshub.app/anthropic/news"},
				{Name: "anthropic-engineering", URL: "https://rsshub.app/anthropic/engineering"},
			},
		},
		LLM: LLMConfig{
			Summarizer: AgentSettings{MaxTokens: 1500, Temperature: 0.2},
			Ranker:     AgentSettings{MaxTokens: 4000, Temperature: 0.0},
			Drafter:    AgentSettings{MaxTokens: 3000, Temperature: 0.4},
		},
		Email: EmailConfig{
			SMTPHost: "smtp.gmail.com",
			SMTPPort: 587,
		},
		Transcripts: TranscriptConfig{Retries: 3},
		Profile:     ProfileConfig{Path: "config/profile.json"},
		Pipeline:    PipelineConfig{Hours: 24, Limit: 10},
		Logging:     LoggingConfig{Level: "info"},
	}
}
