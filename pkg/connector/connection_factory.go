package connector

import (
	"fmt"
	"strings"
)

var dbTypeAliases = map[string]string{
	"mysql":      "mysql",
	"mariadb":    "mysql",
	"oracle":     "oracle",
	"godror":     "oracle",
	"postgres":   "postgres",
	"postgresql": "postgres",
}

// New creates a connector for dbType. native is only used by Oracle.
func New(dbType string, cfg ConnectionConfig, native NativeClientConfig, opts ...Option) (Connector, error) {
	canonical, ok := CanonicalDbType(dbType)
	if !ok {
		return nil, invalidConfig(dbType, fmt.Sprintf("driver not implemented for %q", dbType))
	}

	switch canonical {
	case "mysql":
		return NewMySQLConnector(cfg, opts...), nil
	case "oracle":
		oc, err := NewOracleConnector(cfg, native, opts...)
		if err != nil {
			return nil, err
		}
		return oc, nil
	default:
		return NewPostgresConnector(cfg, opts...), nil
	}
}

// CanonicalDbType maps a db type or one of its aliases (mariadb, godror,
// postgresql) to the name listed by SupportedDatabases.
func CanonicalDbType(dbType string) (string, bool) {
	canonical, ok := dbTypeAliases[strings.ToLower(strings.TrimSpace(dbType))]
	return canonical, ok
}

// SupportedDatabases lists the db types New accepts.
func SupportedDatabases() []string {
	return []string{"mysql", "oracle", "postgres"}
}
