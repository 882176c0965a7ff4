package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// 环境取值。
const (
	EnvSandbox = "sandbox"
	EnvLive    = "live"
)

// 语言取值。
const (
	LangZhCN = "zh_CN"
	LangEnUS = "en_US"
)

// Config 聚合了网关运行所需的全部配置项。
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Tiger     TigerConfig     `mapstructure:"tiger"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// AppConfig 控制应用级参数。
type AppConfig struct {
	Environment string `mapstructure:"environment"`
	GatewayName string `mapstructure:"gateway_name"`
}

// TigerConfig 描述老虎证券开放平台的连接信息。
// PrivateKey 与 PrivateKeyPath 至少填写一个；两者都填写时内联私钥优先。
type TigerConfig struct {
	TigerID            string      `mapstructure:"tiger_id"`
	Account            string      `mapstructure:"account"`
	PrivateKey         string      `mapstructure:"private_key"`
	PrivateKeyPath     string      `mapstructure:"private_key_path"`
	PublicKeyPath      string      `mapstructure:"public_key_path"`
	Environment        string      `mapstructure:"environment"`
	Language           string      `mapstructure:"language"`
	MaxContractCount   int         `mapstructure:"max_contract_count"`
	PresetContractOnly bool        `mapstructure:"preset_contract_only"`
	Symbols            []string    `mapstructure:"symbols"`
	Retry              RetryConfig `mapstructure:"retry"`
}

// RetryConfig 统一控制重试机制。
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	MinDelay    time.Duration `mapstructure:"min_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
}

// ServerConfig 控制监控服务。
type ServerConfig struct {
	MonitorPort int `mapstructure:"monitor_port"`
}

// DatabaseConfig 管理事件留痕数据库。
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	InMemory        bool          `mapstructure:"in_memory"`
}

// LoggingConfig 控制日志输出。
type LoggingConfig struct {
	Level            string   `mapstructure:"level"`
	Encoding         string   `mapstructure:"encoding"`
	Development      bool     `mapstructure:"development"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// SchedulerConfig 控制轮询查询节奏。
type SchedulerConfig struct {
	QueryInterval time.Duration `mapstructure:"query_interval"`
}

// Validate 对配置进行基本校验。
func (c *Config) Validate() error {
	var err error

	if c.App.Environment == "" {
		err = multierr.Append(err, errors.New("app.environment 不能为空"))
	}
	if c.App.GatewayName == "" {
		err = multierr.Append(err, errors.New("app.gateway_name 不能为空"))
	}
	if c.Tiger.TigerID == "" {
		err = multierr.Append(err, errors.New("tiger.tiger_id 不能为空"))
	}
	if c.Tiger.Account == "" {
		err = multierr.Append(err, errors.New("tiger.account 不能为空"))
	}
	if c.Tiger.PrivateKey == "" && c.Tiger.PrivateKeyPath == "" {
		err = multierr.Append(err, errors.New("tiger.private_key 与 tiger.private_key_path 至少填写一个"))
	}
	if c.Tiger.Environment != EnvSandbox && c.Tiger.Environment != EnvLive {
		err = multierr.Append(err, fmt.Errorf("tiger.environment 取值 %q 非法, 仅支持 sandbox 或 live", c.Tiger.Environment))
	}
	if c.Tiger.Language != LangZhCN && c.Tiger.Language != LangEnUS {
		err = multierr.Append(err, fmt.Errorf("tiger.language 取值 %q 非法, 仅支持 zh_CN 或 en_US", c.Tiger.Language))
	}
	if c.Tiger.MaxContractCount <= 0 {
		err = multierr.Append(err, errors.New("tiger.max_contract_count 必须大于0"))
	}
	if c.Tiger.PresetContractOnly && len(c.Tiger.Symbols) == 0 {
		err = multierr.Append(err, errors.New("tiger.preset_contract_only 开启时 tiger.symbols 不能为空"))
	}
	if c.Tiger.Retry.MaxAttempts <= 0 {
		err = multierr.Append(err, errors.New("tiger.retry.max_attempts 必须大于0"))
	}
	if c.Tiger.Retry.MinDelay <= 0 || c.Tiger.Retry.MaxDelay <= 0 {
		err = multierr.Append(err, errors.New("tiger.retry.delay 必须为正"))
	}
	if c.Tiger.Retry.MinDelay > c.Tiger.Retry.MaxDelay {
		err = multierr.Append(err, errors.New("tiger.retry.min_delay 不能大于 max_delay"))
	}
	if c.Server.MonitorPort < 0 || c.Server.MonitorPort > 65535 {
		err = multierr.Append(err, errors.New("server.monitor_port 必须位于[0,65535]"))
	}
	if c.Database.Path == "" && !c.Database.InMemory {
		err = multierr.Append(err, errors.New("database.path 不能为空"))
	}
	if c.Database.MaxOpenConns <= 0 {
		err = multierr.Append(err, errors.New("database.max_open_conns 必须大于0"))
	}
	if c.Database.MaxIdleConns < 0 {
		err = multierr.Append(err, errors.New("database.max_idle_conns 不能为负"))
	}
	if c.Database.ConnMaxLifetime < 0 {
		err = multierr.Append(err, errors.New("database.conn_max_lifetime 不能为负"))
	}
	if c.Logging.Level == "" {
		err = multierr.Append(err, errors.New("logging.level 不能为空"))
	}
	if c.Logging.Encoding == "" {
		err = multierr.Append(err, errors.New("logging.encoding 不能为空"))
	}
	if len(c.Logging.OutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.output_paths 至少包含一个输出目标"))
	}
	if len(c.Logging.ErrorOutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.error_output_paths 至少包含一个输出目标"))
	}
	if c.Scheduler.QueryInterval <= 0 {
		err = multierr.Append(err, errors.New("scheduler.query_interval 必须大于0"))
	}

	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	return nil
}
