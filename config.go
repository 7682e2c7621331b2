package brume

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// SystemConfig is the user-facing configuration of one particle system in
// the demo: pool size, spawn rate, mesh choice, texture path and position.
type SystemConfig struct {
	Max     int
	Rate    int
	Mesh    string
	Texture string
	Pos     mgl32.Vec3
}

func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		Max:  5000,
		Rate: 10,
		Mesh: MeshCube,
	}
}

func (c SystemConfig) String() string {
	texture := c.Texture
	if texture == "" {
		texture = "None"
	}
	return fmt.Sprintf(
		"Max Particles: %d\nParticle Rate: %d\nMesh: %s\nPosition: %g, %g, %g\nTexture: %s",
		c.Max, c.Rate, c.Mesh, c.Pos.X(), c.Pos.Y(), c.Pos.Z(), texture,
	)
}

// Config holds the configuration of every particle system requested on the
// command line.
type Config struct {
	Systems []SystemConfig
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Particle Systems\n")
	b.WriteString("=============================================================\n")
	for i, sc := range c.Systems {
		fmt.Fprintf(&b, "System %d:\n%s\n", i, sc)
	}
	return b.String()
}

// ParseConfig reads the demo's argument list. "g" closes the current system
// block and starts the next one; "-max", "-rate", "-mesh", "-texture" and
// "-pos x y z" set fields of the current block. Errors are typed and
// surfaced before any GPU resource is allocated.
func ParseConfig(args []string) (*Config, error) {
	cfg := &Config{}
	current := DefaultSystemConfig()

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "g":
			cfg.Systems = append(cfg.Systems, current)
			current = DefaultSystemConfig()
		case "-max":
			val, err := takeArg("-max", args, &i)
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return nil, &ConfigError{Option: "-max", Value: val, Reason: "expected a positive integer"}
			}
			current.Max = n
		case "-rate":
			val, err := takeArg("-rate", args, &i)
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return nil, &ConfigError{Option: "-rate", Value: val, Reason: "expected a non-negative integer"}
			}
			current.Rate = n
		case "-mesh":
			val, err := takeArg("-mesh", args, &i)
			if err != nil {
				return nil, err
			}
			if val != MeshCube {
				if _, statErr := os.Stat(val); statErr != nil {
					return nil, &ConfigError{Option: "-mesh", Value: val, Reason: "not found (expected \"cube\" or an OBJ path)"}
				}
			}
			current.Mesh = val
		case "-texture":
			val, err := takeArg("-texture", args, &i)
			if err != nil {
				return nil, err
			}
			if _, statErr := os.Stat(val); statErr != nil {
				return nil, &ConfigError{Option: "-texture", Value: val, Reason: "not found"}
			}
			current.Texture = val
		case "-pos":
			for axis := 0; axis < 3; axis++ {
				val, err := takeArg("-pos", args, &i)
				if err != nil {
					return nil, err
				}
				f, err := strconv.ParseFloat(val, 32)
				if err != nil {
					return nil, &ConfigError{Option: "-pos", Value: val, Reason: "expected a number"}
				}
				current.Pos[axis] = float32(f)
			}
		default:
			return nil, &ConfigError{Option: args[i], Value: args[i], Reason: "unknown option"}
		}
	}

	cfg.Systems = append(cfg.Systems, current)
	return cfg, nil
}

func takeArg(option string, args []string, i *int) (string, error) {
	if *i+1 >= len(args) {
		return "", &ConfigError{Option: option, Value: "", Reason: "missing value"}
	}
	*i++
	return args[*i], nil
}
