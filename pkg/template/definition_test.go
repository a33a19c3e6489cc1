package template

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"digital.vasic.flicker/pkg/scenario"
)

func TestDefinition_YAML(t *testing.T) {
	data := []byte(`
template: visible_layers_shown_more_than_one_consecutive_entry
ignore: [NOTIFICATION_SHADE, VOLUME_DIALOG]
group: non_blocking
`)

	var def Definition
	require.NoError(t, yaml.Unmarshal(data, &def))

	assert.Equal(t,
		"visible_layers_shown_more_than_one_consecutive_entry", def.Template)
	assert.Equal(t,
		[]string{"NOTIFICATION_SHADE", "VOLUME_DIALOG"}, def.Ignore)
	assert.Equal(t, scenario.GroupNonBlocking, def.EffectiveGroup())
}

func TestDefinition_JSONOmitEmpty(t *testing.T) {
	data, err := json.Marshal(Definition{Template: "focus_changes"})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, map[string]any{"template": "focus_changes"}, raw)
}

func TestDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr string
	}{
		{name: "default group", def: Definition{Template: "x"}},
		{name: "blocking", def: Definition{Template: "x", Group: "blocking"}},
		{name: "non blocking", def: Definition{Template: "x", Group: "non_blocking"}},
		{name: "missing template", def: Definition{}, wantErr: "template name is required"},
		{name: "unknown group", def: Definition{Template: "x", Group: "flaky"}, wantErr: `unknown group "flaky"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefinition_EffectiveGroupDefault(t *testing.T) {
	assert.Equal(t, scenario.GroupBlocking, Definition{}.EffectiveGroup())
}
