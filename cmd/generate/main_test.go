package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	engine "github.com/rxtech-lab/argo-vector/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-vector/internal/indicator"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type GenerateCmdTestSuite struct {
	suite.Suite
	tempDir string
}

func TestGenerateCmdSuite(t *testing.T) {
	suite.Run(t, new(GenerateCmdTestSuite))
}

func (suite *GenerateCmdTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
	suite.T().Chdir(suite.tempDir)
}

func (suite *GenerateCmdTestSuite) TestMain() {
	main()

	schema, err := os.ReadFile(filepath.Join(suite.tempDir, "config", schemaName))
	suite.Require().NoError(err)

	var parsed map[string]any
	suite.NoError(json.Unmarshal(schema, &parsed))

	sample, err := os.ReadFile(filepath.Join(suite.tempDir, "config", sampleConfigName))
	suite.Require().NoError(err)
	suite.Contains(string(sample), "# yaml-language-server: $schema="+schemaName)
}

func (suite *GenerateCmdTestSuite) TestSampleConfigNotOverwritten() {
	samplePath := filepath.Join(suite.tempDir, "existing-config.yaml")
	suite.Require().NoError(os.WriteFile(samplePath, []byte("existing content"), 0644))

	suite.Require().NoError(generateSampleConfig(samplePath, "test-schema.json"))

	content, err := os.ReadFile(samplePath)
	suite.Require().NoError(err)
	suite.Equal("existing content", string(content))
}

func (suite *GenerateCmdTestSuite) TestSampleConfigExpands() {
	config := engine.EmptyConfig()
	suite.Require().NoError(yaml.Unmarshal([]byte(sampleConfig), &config))

	specs, err := engine.ExpandStrategies(indicator.NewDefaultRegistry(), config.Strategies)
	suite.Require().NoError(err)

	// 2 variants x 2 types x 12 periods x 18 exits, then 3 lengths x 5 multipliers x 2 periods
	suite.Len(specs, 2*2*12*18+3*5*2)
}

func (suite *GenerateCmdTestSuite) TestGenerateSchemaFileInvalidPath() {
	blocker := filepath.Join(suite.tempDir, "file")
	suite.Require().NoError(os.WriteFile(blocker, nil, 0644))

	err := generateSchemaFile(engine.EmptyConfig(), filepath.Join(blocker, "schema.json"))
	suite.Error(err)
	suite.Contains(err.Error(), "failed to create directory")
}
