package store

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

const repositoryColumns = `repo_id, address, format_version, index_timestamp, last_updated,
		certificate, fingerprint, mirrors, user_mirrors, disabled_mirrors,
		username, password, enabled, weight, metadata, last_error`

const (
	listRepositories = `SELECT ` + repositoryColumns + `
		FROM repositories
		ORDER BY weight, repo_id;`

	getRepository = `SELECT ` + repositoryColumns + `
		FROM repositories
		WHERE repo_id = $1;`

	insertRepository = `INSERT INTO repositories (
			address,
			format_version,
			index_timestamp,
			certificate,
			fingerprint,
			mirrors,
			user_mirrors,
			disabled_mirrors,
			username,
			password,
			enabled,
			weight,
			metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			(SELECT COALESCE(MAX(weight), 0) + 1 FROM repositories), $12)
		RETURNING repo_id;`

	updateRepoMirrors = `UPDATE repositories SET
			user_mirrors     = $1,
			disabled_mirrors = $2
		WHERE repo_id = $3;`

	setEnabled = `UPDATE repositories SET enabled = $1 WHERE repo_id = $2;`

	setCredentials = `UPDATE repositories SET
			username = $1,
			password = $2
		WHERE repo_id = $3;`

	deleteRepository = `DELETE FROM repositories WHERE repo_id = $1;`

	setLastError = `UPDATE repositories SET last_error = $1 WHERE repo_id = $2;`

	upsertRepoMetadata = `UPDATE repositories SET
			mirrors  = $1,
			metadata = $2
		WHERE repo_id = $3;`

	updateRepoTrust = `UPDATE repositories SET
			index_timestamp = $1,
			last_updated    = $2,
			certificate     = $3,
			format_version  = $4,
			last_error      = ''
		WHERE repo_id = $5;`

	upsertPackage = `INSERT INTO packages (repo_id, package_id, metadata, versions)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (repo_id, package_id) DO UPDATE SET
			metadata = excluded.metadata,
			versions = excluded.versions;`

	getPackage = `SELECT metadata, versions
		FROM packages
		WHERE repo_id = $1 AND package_id = $2;`

	deletePackage = `DELETE FROM packages WHERE repo_id = $1 AND package_id = $2;`
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildListPackagesQuery selects the packages of a repository ordered by id,
// optionally narrowed to an id prefix and paginated.
func buildListPackagesQuery(filter PackageFilter) (string, []any, error) {
	q := psql.
		Select("repo_id", "package_id", "metadata", "versions").
		From("packages").
		Where(sq.Eq{"repo_id": filter.RepoID}).
		OrderBy("package_id")

	if filter.Prefix != "" {
		q = q.Where(sq.Expr(`package_id LIKE ? ESCAPE '\'`, escapeLike(filter.Prefix)+"%"))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	return q.ToSql()
}

func buildCountPackagesQuery(repoID int64) (string, []any, error) {
	return psql.
		Select("COUNT(*)").
		From("packages").
		Where(sq.Eq{"repo_id": repoID}).
		ToSql()
}

// buildDeletePackagesQuery removes the given packages of a repository, or all
// of them when ids is empty.
func buildDeletePackagesQuery(repoID int64, ids ...string) (string, []any, error) {
	q := psql.Delete("packages").Where(sq.Eq{"repo_id": repoID})
	if len(ids) > 0 {
		q = q.Where(sq.Eq{"package_id": ids})
	}
	return q.ToSql()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
