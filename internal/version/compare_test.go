package version

import (
	"testing"

	"github.com/rxtech-lab/argo-vector/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckVersionCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		engineVersion string
		configVersion string
		expectError   bool
		expectedCode  errors.ErrorCode
		errorContains string
	}{
		{
			name:          "exact match",
			engineVersion: "1.2.0",
			configVersion: "1.2.0",
		},
		{
			name:          "engine patch higher",
			engineVersion: "1.2.1",
			configVersion: "1.2.0",
		},
		{
			name:          "config patch higher",
			engineVersion: "1.2.0",
			configVersion: "1.2.5",
		},
		{
			name:          "v prefix on both sides",
			engineVersion: "v1.0.3",
			configVersion: "v1.0.0",
		},
		{
			name:          "engine minor higher",
			engineVersion: "1.3.0",
			configVersion: "1.2.0",
			expectError:   true,
			expectedCode:  errors.ErrCodeVersionMismatch,
			errorContains: "minor version mismatch",
		},
		{
			name:          "engine minor lower",
			engineVersion: "1.1.0",
			configVersion: "1.2.0",
			expectError:   true,
			expectedCode:  errors.ErrCodeVersionMismatch,
			errorContains: "minor version mismatch",
		},
		{
			name:          "major version differs",
			engineVersion: "2.0.0",
			configVersion: "1.2.0",
			expectError:   true,
			expectedCode:  errors.ErrCodeVersionMismatch,
			errorContains: "major version mismatch",
		},
		{
			name:          "engine is main",
			engineVersion: "main",
			configVersion: "1.2.0",
		},
		{
			name:          "config is main",
			engineVersion: "1.2.0",
			configVersion: "main",
		},
		{
			name:          "invalid engine version",
			engineVersion: "not-a-version",
			configVersion: "1.2.0",
			expectError:   true,
			expectedCode:  errors.ErrCodeInvalidVersion,
			errorContains: "invalid engine version",
		},
		{
			name:          "invalid config version",
			engineVersion: "1.2.0",
			configVersion: "x.y",
			expectError:   true,
			expectedCode:  errors.ErrCodeInvalidVersion,
			errorContains: "invalid config version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckVersionCompatibility(tt.engineVersion, tt.configVersion)
			if tt.expectError {
				require.Error(t, err)
				assert.Equal(t, tt.expectedCode, errors.GetCode(err))
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.True(t, errors.IsConfigurationError(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	assert.Equal(t, Version, v)
}
