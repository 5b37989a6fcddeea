// Package binds contains the Bind type that is used to represent the
// positional placeholder understood by different drivers.
package binds

import (
	"strconv"
	"sync"
)

type Bind byte

const (
	Unknown  Bind = iota
	At            // placeholder '@p1'
	Colon         // placeholder ':name'
	Dollar        // placeholder '$1'
	Question      // placeholder '?'
)

// String returns the bind name, e.g. "Question".
func (b Bind) String() string {
	switch b {
	case At:
		return "At"
	case Colon:
		return "Colon"
	case Dollar:
		return "Dollar"
	case Question:
		return "Question"
	}
	return "Unknown"
}

// Placeholder returns the placeholder text for a bind variable at the
// zero-based ordinal position with the given name.
// Numbered binds are 1-based, so a repeated name reuses its number.
func (b Bind) Placeholder(ordinal int, name string) string {
	switch b {
	case At:
		return "@p" + strconv.Itoa(ordinal+1)
	case Colon:
		return ":" + name
	case Dollar:
		return "$" + strconv.Itoa(ordinal+1)
	}
	return "?"
}

// PerOccurrence reports whether the driver expects one argument for every
// placeholder in the query, rather than one per distinct name.
func (b Bind) PerOccurrence() bool {
	return b == Question || b == Unknown
}

var bindByDriverName sync.Map

func init() {
	bindByDriverName.Store("azuresql", At)
	bindByDriverName.Store("sqlserver", At)

	bindByDriverName.Store("godror", Colon)
	bindByDriverName.Store("goracle", Colon)
	bindByDriverName.Store("oci8", Colon)
	bindByDriverName.Store("ora", Colon)

	bindByDriverName.Store("cloudsqlpostgres", Dollar)
	bindByDriverName.Store("cockroach", Dollar)
	bindByDriverName.Store("nrpostgres", Dollar)
	bindByDriverName.Store("pgx", Dollar)
	bindByDriverName.Store("postgres", Dollar)
	bindByDriverName.Store("pq-timeouts", Dollar)
	bindByDriverName.Store("ql", Dollar)

	bindByDriverName.Store("mysql", Question)
	bindByDriverName.Store("nrmysql", Question)
	bindByDriverName.Store("nrsqlite3", Question)
	bindByDriverName.Store("sqlite3", Question)
}

// Register adds a new driver name and its bind to be
// available to [BindByDriver], panics if the name is empty
// or if the bind is [Unknown].
func Register(name string, bind Bind) {
	if name == "" {
		panic("namedstmt/binds: driver name cannot be empty")
	}

	if bind == Unknown {
		panic("namedstmt/binds: bind cannot be unknown")
	}

	bindByDriverName.Store(name, bind)
}

// BindByDriver return the [Bind] corresponding to driver name.
// If it's not found, [Register] a new driver name.
func BindByDriver(name string) Bind {
	val, ok := bindByDriverName.Load(name)
	if !ok {
		return Unknown
	}
	return val.(Bind)
}
