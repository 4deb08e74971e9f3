package config

import (
	"fmt"
	"strconv"
)

type Query struct {
	Name string `yaml:"name"`
	Id   int    `yaml:"id"`
	SQL  string `yaml:"sql"`
}

func GetNextQueryId(queries map[string]Query) int {
	maxID := 0
	for _, q := range queries {
		if q.Id > maxID {
			maxID = q.Id
		}
	}
	return maxID + 1
}

// FindQueryWithSelector looks a query up by numeric id or by name.
func FindQueryWithSelector(queries map[string]Query, selector string) (Query, bool) {
	if id, err := strconv.Atoi(selector); err == nil {
		for _, q := range queries {
			if q.Id == id {
				return q, true
			}
		}
		return Query{}, false
	}
	q, ok := queries[selector]
	return q, ok
}

// SaveQueryToConnection saves a named query on a connection. A new name
// gets the next free id; an existing name is overwritten in place.
func (c *Config) SaveQueryToConnection(connName, name, sql string) (Query, error) {
	connData, ok := c.Connections[connName]
	if !ok {
		return Query{}, fmt.Errorf("connection '%s' does not exist", connName)
	}
	if connData.Queries == nil {
		connData.Queries = make(map[string]Query)
	}

	query := Query{Name: name, SQL: sql}
	if existing, exists := connData.Queries[name]; exists {
		query.Id = existing.Id
	} else {
		query.Id = GetNextQueryId(connData.Queries)
	}
	connData.Queries[name] = query

	if err := c.Save(); err != nil {
		return Query{}, err
	}
	return query, nil
}

func (c *Config) RemoveQuery(connName, selector string) (Query, error) {
	connData, ok := c.Connections[connName]
	if !ok {
		return Query{}, fmt.Errorf("connection '%s' does not exist", connName)
	}
	q, ok := FindQueryWithSelector(connData.Queries, selector)
	if !ok {
		return Query{}, fmt.Errorf("query '%s' not found", selector)
	}
	delete(connData.Queries, q.Name)
	return q, c.Save()
}

func (c *Config) UpdateLastQuery(connName string, query Query) error {
	connData, ok := c.Connections[connName]
	if !ok {
		return fmt.Errorf("connection '%s' does not exist", connName)
	}
	connData.LastQuery = query
	return c.Save()
}
