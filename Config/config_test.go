package Config

import (
	"testing"

	"chat-summariser/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddOns(t *testing.T) {
	set := ParseAddOns("assigned-tasks, FILE-SUMMARY,,bogus")

	assert.True(t, set.Has(Models.AddOnAssignedTasks))
	assert.True(t, set.Has(Models.AddOnFileSummary))
	assert.False(t, set.Has(Models.AddOnFollowUpQuestions))
	assert.False(t, set.Has(Models.AddOnParticipantsSummary))
}

func TestParseAddOns_Empty(t *testing.T) {
	assert.Equal(t, Models.AddOnSet(0), ParseAddOns(""))
}

func TestEnvSettings_ReadsEachCall(t *testing.T) {
	t.Setenv("ADD_ONS", "follow-up-questions")
	t.Setenv("X_AUTH_TOKEN", "token")
	t.Setenv("X_USER_ID", "")

	settings := EnvSettings{}.Settings()
	assert.True(t, settings.AddOns.Has(Models.AddOnFollowUpQuestions))
	assert.False(t, settings.HasFileCredentials())

	t.Setenv("X_USER_ID", "U1")
	assert.True(t, EnvSettings{}.Settings().HasFileCredentials())
}

func setRequired(t *testing.T) {
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_SIGNING_SECRET", "secret")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("COMPLETION_PROVIDER", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	config, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", config.Port)
	assert.Equal(t, ProviderGemini, config.CompletionProvider)
	assert.Equal(t, StoreSqlite, config.StoreDriver)
	assert.Equal(t, "*/5 * * * *", config.KeepAliveSchedule)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing bot token",
			env:     map[string]string{"SLACK_BOT_TOKEN": ""},
			wantErr: "SLACK_BOT_TOKEN is required",
		},
		{
			name:    "unknown provider",
			env:     map[string]string{"COMPLETION_PROVIDER": "llama"},
			wantErr: `unknown COMPLETION_PROVIDER "llama"`,
		},
		{
			name:    "postgres without url",
			env:     map[string]string{"STORE_DRIVER": "postgres", "DATABASE_URL": ""},
			wantErr: "DATABASE_URL is required for the postgres store",
		},
		{
			name:    "openai without key or url",
			env:     map[string]string{"COMPLETION_PROVIDER": "openai", "OPENAI_API_KEY": "", "OPENAI_BASE_URL": ""},
			wantErr: "OPENAI_API_KEY or OPENAI_BASE_URL is required for the openai provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}
