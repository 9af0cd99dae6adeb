package suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"paratest/internal/config"
	"paratest/internal/domain"
)

// providerScript instantiates the test class and prints the keys of the data
// provider's result as a JSON array.
const providerScript = `
$autoload = getenv('PARATEST_AUTOLOAD');
if ($autoload !== false && is_file($autoload)) {
    require_once $autoload;
}
require_once getenv('PARATEST_FILE');
$class = getenv('PARATEST_CLASS');
$provider = getenv('PARATEST_PROVIDER');
$test = new $class(getenv('PARATEST_METHOD'));
$data = $test->$provider();
if ($data instanceof Traversable) {
    $data = iterator_to_array($data);
}
echo PHP_EOL, json_encode(array_keys($data)), PHP_EOL;
`

// PHPDataProvider runs data providers through the php binary
type PHPDataProvider struct {
	config *config.Config
	cache  map[string][]domain.DataSetKey
}

// NewPHPDataProvider creates a new PHPDataProvider
func NewPHPDataProvider(cfg *config.Config) *PHPDataProvider {
	return &PHPDataProvider{
		config: cfg,
		cache:  make(map[string][]domain.DataSetKey),
	}
}

// Keys executes provider on a fresh instance of class and returns the keys of
// the data sets it yields, in order.
func (p *PHPDataProvider) Keys(ctx context.Context, class *domain.ClassDescriptor, method domain.MethodDescriptor, provider string) ([]domain.DataSetKey, error) {
	cacheKey := class.Name + "::" + provider
	if keys, ok := p.cache[cacheKey]; ok {
		return keys, nil
	}

	projectAbsPath, err := filepath.Abs(p.config.ProjectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute project path: %w", err)
	}
	file, err := filepath.Abs(class.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute test path: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.config.PHPBinary, "-r", providerScript)
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env,
		"PARATEST_AUTOLOAD="+filepath.Join(projectAbsPath, "vendor", "autoload.php"),
		"PARATEST_FILE="+file,
		"PARATEST_CLASS="+class.Name,
		"PARATEST_METHOD="+method.Name,
		"PARATEST_PROVIDER="+provider,
	)
	cmd.Dir = projectAbsPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()+"\n"+stdout.String()))
	}

	keys, err := decodeKeys(stdout.String())
	if err != nil {
		return nil, err
	}
	p.cache[cacheKey] = keys
	return keys, nil
}

// decodeKeys reads the JSON key list from the last non-empty line of output,
// so notices printed by the test bootstrap do not get in the way.
func decodeKeys(output string) ([]domain.DataSetKey, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return nil, fmt.Errorf("data provider produced no output")
	}

	dec := json.NewDecoder(strings.NewReader(last))
	dec.UseNumber()
	var raw []interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode data set keys %q: %w", last, err)
	}

	keys := make([]domain.DataSetKey, 0, len(raw))
	for _, k := range raw {
		switch v := k.(type) {
		case json.Number:
			i, err := v.Int64()
			if err != nil {
				return nil, fmt.Errorf("data set key %s is not an integer: %w", v, err)
			}
			keys = append(keys, domain.IntKey(int(i)))
		case string:
			keys = append(keys, domain.StringKey(v))
		default:
			return nil, fmt.Errorf("unexpected data set key %v", k)
		}
	}
	return keys, nil
}
