package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/cfgcrunch/server/dao"
	"github.com/google/uuid"
)

const simplificationColumns = `id, owner, name, input, result, created`

// NewSimplificationsDBConn opens a SimplificationsDB on its own connection to
// the given file. The connection is closed when the SimplificationsDB is
// closed.
func NewSimplificationsDBConn(file string) (*SimplificationsDB, error) {
	repo := &SimplificationsDB{ownsDB: true}

	var err error
	repo.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return repo, repo.init()
}

// SimplificationsDB stores simplifications in SQLite. The result grammar is
// kept as a base64-encoded binary blob.
type SimplificationsDB struct {
	db     *sql.DB
	ownsDB bool
}

func (repo *SimplificationsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS simplifications (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		owner TEXT NOT NULL,
		name TEXT NOT NULL,
		input TEXT NOT NULL,
		result TEXT NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}

	return nil
}

func (repo *SimplificationsDB) Create(ctx context.Context, s dao.Simplification) (dao.Simplification, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Simplification{}, fmt.Errorf("could not generate ID: %w", err)
	}

	result, err := convertToDB_Grammar(s.Result)
	if err != nil {
		return dao.Simplification{}, fmt.Errorf("could not encode result grammar: %w", err)
	}

	stmt, err := repo.db.PrepareContext(ctx, `INSERT INTO simplifications (`+simplificationColumns+`) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Simplification{}, wrapDBError(err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(
		ctx,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(s.Owner),
		s.Name,
		convertToDB_Lines(s.Input),
		result,
		convertToDB_Time(time.Now()),
	)
	if err != nil {
		return dao.Simplification{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *SimplificationsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Simplification, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT `+simplificationColumns+` FROM simplifications WHERE id = ?;`, convertToDB_UUID(id))
	return scanSimplification(row)
}

func (repo *SimplificationsDB) GetAllByOwner(ctx context.Context, owner uuid.UUID) ([]dao.Simplification, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT `+simplificationColumns+` FROM simplifications WHERE owner = ? ORDER BY seq;`, convertToDB_UUID(owner))
	if err != nil {
		return nil, wrapDBError(err)
	}
	return collectSimplifications(rows)
}

func (repo *SimplificationsDB) GetAll(ctx context.Context) ([]dao.Simplification, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT `+simplificationColumns+` FROM simplifications ORDER BY seq;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	return collectSimplifications(rows)
}

func (repo *SimplificationsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Simplification, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM simplifications WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *SimplificationsDB) Close() error {
	if !repo.ownsDB {
		return nil
	}
	return repo.db.Close()
}

func collectSimplifications(rows *sql.Rows) ([]dao.Simplification, error) {
	defer rows.Close()

	all := []dao.Simplification{}
	for rows.Next() {
		s, err := scanSimplification(rows)
		if err != nil {
			return all, err
		}
		all = append(all, s)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func scanSimplification(row scanner) (dao.Simplification, error) {
	var s dao.Simplification
	var id, owner, input, result string
	var created int64

	err := row.Scan(
		&id,
		&owner,
		&s.Name,
		&input,
		&result,
		&created,
	)
	if err != nil {
		return dao.Simplification{}, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &s.ID); err != nil {
		return dao.Simplification{}, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	if err := convertFromDB_UUID(owner, &s.Owner); err != nil {
		return dao.Simplification{}, fmt.Errorf("stored owner UUID %q is invalid: %w", owner, err)
	}
	if err := convertFromDB_Grammar(result, &s.Result); err != nil {
		return dao.Simplification{}, fmt.Errorf("stored result for %s is invalid: %w", id, err)
	}
	_ = convertFromDB_Lines(input, &s.Input)
	_ = convertFromDB_Time(created, &s.Created)

	return s, nil
}
