package snapshot

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	DROP TABLE IF EXISTS namespaces;
	DROP TABLE IF EXISTS pages;
	DROP TABLE IF EXISTS titles;
	DROP TABLE IF EXISTS parents;
	DROP TABLE IF EXISTS children;

	CREATE TABLE namespaces (
		token TEXT PRIMARY KEY
	) WITHOUT ROWID;

	CREATE TABLE pages (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		namespace TEXT
	) WITHOUT ROWID;

	CREATE TABLE titles (
		namespace TEXT NOT NULL,
		title TEXT NOT NULL,
		id TEXT NOT NULL,
		PRIMARY KEY (namespace, title)
	) WITHOUT ROWID;

	CREATE TABLE parents (
		id TEXT NOT NULL,
		pos INTEGER NOT NULL,
		parent_id TEXT,
		PRIMARY KEY (id, pos)
	) WITHOUT ROWID;

	CREATE TABLE children (
		id TEXT NOT NULL,
		pos INTEGER NOT NULL,
		child_id TEXT,
		PRIMARY KEY (id, pos)
	) WITHOUT ROWID;
`

// emptyPos marks an adjacency key whose id list is empty, so the key survives
// a round trip.
const emptyPos = -1

// WriteSQLite exports snap into the SQLite database at dbPath, replacing any
// tables a previous export created. Adjacency order is preserved.
func WriteSQLite(dbPath string, snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		return fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op once committed

	pageStmt, err := tx.Prepare("INSERT INTO pages (id, title, namespace) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare pages insert: %w", err)
	}
	defer func() { _ = pageStmt.Close() }() // safe to ignore

	for id, title := range snap.IDToTitle {
		var ns any
		if tok, ok := snap.IDToNamespace[id]; ok {
			ns = tok
		}
		if _, err := pageStmt.Exec(id, title, ns); err != nil {
			return fmt.Errorf("insert page %s: %w", id, err)
		}
	}

	titleStmt, err := tx.Prepare("INSERT INTO titles (namespace, title, id) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare titles insert: %w", err)
	}
	defer func() { _ = titleStmt.Close() }() // safe to ignore

	for ns, titles := range snap.TitleToID {
		if _, err := tx.Exec("INSERT INTO namespaces (token) VALUES (?)", ns); err != nil {
			return fmt.Errorf("insert namespace %s: %w", ns, err)
		}
		for title, id := range titles {
			if _, err := titleStmt.Exec(ns, title, id); err != nil {
				return fmt.Errorf("insert title %s/%s: %w", ns, title, err)
			}
		}
	}

	if err := writeAdjacency(tx, "parents", "parent_id", snap.ChildrenToParents); err != nil {
		return err
	}
	if err := writeAdjacency(tx, "children", "child_id", snap.ParentsToChildren); err != nil {
		return err
	}
	return tx.Commit()
}

func writeAdjacency(tx *sql.Tx, table, column string, adj map[string][]string) error {
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (id, pos, %s) VALUES (?, ?, ?)", table, column))
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer func() { _ = stmt.Close() }() // safe to ignore

	for id, ids := range adj {
		if len(ids) == 0 {
			if _, err := stmt.Exec(id, emptyPos, nil); err != nil {
				return fmt.Errorf("insert %s %s: %w", table, id, err)
			}
			continue
		}
		for pos, other := range ids {
			if _, err := stmt.Exec(id, pos, other); err != nil {
				return fmt.Errorf("insert %s %s[%d]: %w", table, id, pos, err)
			}
		}
	}
	return nil
}

// ReadSQLite loads a snapshot previously written by WriteSQLite. A missing
// file fails with os.ErrNotExist instead of creating an empty database.
func ReadSQLite(dbPath string) (*Snapshot, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	snap := &Snapshot{
		IDToTitle:         make(map[string]string),
		IDToNamespace:     make(map[string]string),
		TitleToID:         make(map[string]map[string]string),
		ChildrenToParents: make(map[string][]string),
		ParentsToChildren: make(map[string][]string),
	}

	rows, err := db.Query("SELECT id, title, namespace FROM pages")
	if err != nil {
		return nil, fmt.Errorf("%w: query pages: %w", ErrMalformed, err)
	}
	for rows.Next() {
		var id, title string
		var ns sql.NullString
		if err := rows.Scan(&id, &title, &ns); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan page: %w", err)
		}
		snap.IDToTitle[id] = title
		if ns.Valid {
			snap.IDToNamespace[id] = ns.String
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = db.Query("SELECT token FROM namespaces")
	if err != nil {
		return nil, fmt.Errorf("%w: query namespaces: %w", ErrMalformed, err)
	}
	for rows.Next() {
		var ns string
		if err := rows.Scan(&ns); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan namespace: %w", err)
		}
		snap.TitleToID[ns] = make(map[string]string)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = db.Query("SELECT namespace, title, id FROM titles")
	if err != nil {
		return nil, fmt.Errorf("%w: query titles: %w", ErrMalformed, err)
	}
	for rows.Next() {
		var ns, title, id string
		if err := rows.Scan(&ns, &title, &id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan title: %w", err)
		}
		if snap.TitleToID[ns] == nil {
			snap.TitleToID[ns] = make(map[string]string)
		}
		snap.TitleToID[ns][title] = id
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	if err := readAdjacency(db, "parents", "parent_id", snap.ChildrenToParents); err != nil {
		return nil, err
	}
	if err := readAdjacency(db, "children", "child_id", snap.ParentsToChildren); err != nil {
		return nil, err
	}
	return snap, nil
}

func readAdjacency(db *sql.DB, table, column string, adj map[string][]string) error {
	rows, err := db.Query(fmt.Sprintf("SELECT id, pos, %s FROM %s ORDER BY id, pos", column, table))
	if err != nil {
		return fmt.Errorf("%w: query %s: %w", ErrMalformed, table, err)
	}
	for rows.Next() {
		var id string
		var pos int
		var other sql.NullString
		if err := rows.Scan(&id, &pos, &other); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan %s: %w", table, err)
		}
		if pos == emptyPos || !other.Valid {
			if _, ok := adj[id]; !ok {
				adj[id] = []string{}
			}
			continue
		}
		adj[id] = append(adj[id], other.String)
	}
	return closeRows(rows)
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	return rows.Close()
}
