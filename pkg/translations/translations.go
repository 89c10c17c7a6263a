package translations

import (
	"encoding/json"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// TranslationHelperFunc returns the description for key, falling back to
// defaultValue when no override is configured.
type TranslationHelperFunc func(key string, defaultValue string) string

func NullTranslationHelper(_ string, defaultValue string) string {
	return defaultValue
}

// TranslationHelper loads description overrides from the environment and from
// github-projects-mcp-server-config.json in the working directory. The second
// return value dumps every translation seen so far back to that file, which is
// how a deployment exports the full set of overridable strings.
func TranslationHelper() (TranslationHelperFunc, func()) {
	var translationKeyMap = map[string]string{}
	v := viper.New()

	v.SetEnvPrefix("GITHUB_MCP_")
	v.AutomaticEnv()

	v.SetConfigName("github-projects-mcp-server-config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Could not read translations config file: %v", err)
		}
	}

	return func(key string, defaultValue string) string {
			key = strings.ToUpper(key)
			if value, exists := translationKeyMap[key]; exists {
				return value
			}
			value := v.GetString(key)
			if value == "" {
				v.SetDefault(key, defaultValue)
				value = defaultValue
			}
			translationKeyMap[key] = value
			return value
		}, func() {
			DumpTranslationKeyMap(translationKeyMap)
		}
}

func DumpTranslationKeyMap(translationKeyMap map[string]string) {
	file, err := os.Create("github-projects-mcp-server-config.json")
	if err != nil {
		log.Printf("Error creating translations file: %v", err)
		return
	}
	defer func() { _ = file.Close() }()

	jsonData, err := json.MarshalIndent(translationKeyMap, "", "  ")
	if err != nil {
		log.Printf("Error marshaling translations to JSON: %v", err)
		return
	}

	if _, err := file.Write(jsonData); err != nil {
		log.Printf("Error writing translations to file: %v", err)
	}
}
