package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

// Thresholds are the calibrated decision constants. They are deployment
// configuration, not learned values.
type Thresholds struct {
	Strong            int     `toml:"strong"`     // stage-1 immediate match floor
	Borderline        int     `toml:"borderline"` // defer band lower bound
	Confidence        float64 `toml:"confidence"` // stage-2 match-upholding floor
	SoftPenalty       int     `toml:"soft_penalty"`
	AgeToleranceYears int     `toml:"age_tolerance_years"`
}

type CacheConfig struct {
	Capacity int `toml:"capacity"`
}

type ExcerptConfig struct {
	Window         int `toml:"window"`          // stage-2 evidence window, chars
	ConflictWindow int `toml:"conflict_window"` // conflict scan window, chars
}

type Prompts struct {
	Extraction string `toml:"extraction"`
	Validation string `toml:"validation"`
}

// Versions are opaque identifiers echoed into the audit trail.
type Versions struct {
	Extractor string `toml:"extractor"`
	Nicknames string `toml:"nicknames"`
	Validator string `toml:"validator"`
}

type Config struct {
	LLM            LLMConfig     `toml:"llm"`
	Thresholds     Thresholds    `toml:"thresholds"`
	Cache          CacheConfig   `toml:"cache"`
	Excerpt        ExcerptConfig `toml:"excerpt"`
	Prompts        Prompts       `toml:"prompts"`
	Versions       Versions      `toml:"versions"`
	NicknamesPath  string        `toml:"nicknames_path"`
	TimeoutSeconds int           `toml:"timeout_seconds"` // remote validator call bound
}

// Default returns the compiled-in configuration. A config file and env
// vars overlay it; the service runs without either.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Thresholds: Thresholds{
			Strong:            80,
			Borderline:        60,
			Confidence:        0.8,
			SoftPenalty:       20,
			AgeToleranceYears: 2,
		},
		Cache:   CacheConfig{Capacity: 1000},
		Excerpt: ExcerptConfig{Window: 500, ConflictWindow: 200},
		Prompts: Prompts{
			Extraction: defaultExtractionPrompt,
			Validation: defaultValidationPrompt,
		},
		Versions: Versions{
			Extractor: "llm-ner-v1",
			Nicknames: "builtin-v1",
			Validator: "screening-validator-v1",
		},
		NicknamesPath:  "config/nicknames.csv",
		TimeoutSeconds: 30,
	}
}

// Load reads a TOML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides config fields from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("NICKNAMES_PATH"); v != "" {
		c.NicknamesPath = v
	}
}

const defaultExtractionPrompt = `Extract every person name mentioned in the text below.
Return only names of individual people, exactly as they appear in the text.
Do not include organizations, places, or titles without a name.

Text:
%s

Respond with strict JSON only:
{"persons": ["name as it appears", ...]}
If no people are mentioned, return {"persons": []}.`

const defaultValidationPrompt = `You are a senior adverse media analyst conducting second-stage validation
of borderline cases from a first-stage name matcher. Confirm or reject the
candidate/article match.

HARD CONSTRAINTS:
1) Return "match" only if the excerpt contains a verbatim mention of the
   candidate's name or one of the allowed variants. Otherwise "no_match".
2) Do not equate phonetically or semantically similar names unless they
   appear exactly as an allowed variant.
3) Base the analysis only on the excerpt and the stage-1 facts; never
   invent external facts or connect unrelated people.
4) An incompatible stated profession (e.g. "Dr. X" vs an attorney) is an
   automatic no_match regardless of name similarity. Related professions
   (doctor/cardiologist, lawyer/attorney, teacher/professor) are compatible.
5) If unsure, return "no_match" with reasons.

Candidate Profile:
- Name: %s
- Date of Birth: %s
- Occupation: %s

Stage 1 Analysis:
- Best Match Found: %s
- Name Variant Used: %s (%s)
- All Generated Variants: %s
- Fuzzy Match Score: %d/100 (penalty applied: %d)
- Detected Conflicts: %s
- Stage 1 Reasoning: %s

Article Excerpt:
%s

Respond with strict JSON only:
{"decision": "match|no_match", "confidence": 0.0-1.0, "evidence_sentence": "key sentence from excerpt", "reasons": "plain English explanation"}`
