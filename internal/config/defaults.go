package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the default test path
	DefaultTestPath = "."
	// DefaultTestPattern matches test files when walking a directory root
	DefaultTestPattern = `Test\.php$`
	// DefaultSourcePattern matches any PHP source file given explicitly
	DefaultSourcePattern = `\.php$`
	// DefaultProjectFile is the project configuration file name
	DefaultProjectFile = "paratest.yaml"
	// DefaultPlanFile is the default file a plan is saved to
	DefaultPlanFile = "paratest-plan.json"
	// DefaultProcessors is the default number of processors
	DefaultProcessors = 4
	// DefaultMaxBatchSize is the default batch size in functional mode
	DefaultMaxBatchSize = 10
	// DefaultPHPBinary is the php executable used for data providers
	DefaultPHPBinary = "php"
	// DefaultDatabasePrefix prefixes per-worker database names
	DefaultDatabasePrefix = "testing"
)

// Dependency policies for a @depends target that is not in any batch.
const (
	PolicyDrop = "drop"
	PolicyWarn = "warn"
	PolicyFail = "fail"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for tests
var DefaultPathsToIgnore = []string{
	".git",
	".idea",
	"vendor",
	"node_modules",
	"public",
	"storage",
	"bootstrap",
	"config",
	"database",
	"resources",
	"routes",
}
