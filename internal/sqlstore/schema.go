package sqlstore

// Table names.
const (
	studentsTable  = "students"
	coursesTable   = "courses"
	languagesTable = "languages"
)

// Schema DDL. One table per persistable entity type, an auto-assigned
// integer key, one column per scalar field and no foreign keys.
// AUTOINCREMENT keeps sqlite ids monotonic across deletes.
const (
	createStudentsSQLite = `CREATE TABLE IF NOT EXISTS students (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL CHECK (name <> '')
);`

	createCoursesSQLite = `CREATE TABLE IF NOT EXISTS courses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE CHECK (name <> ''),
    kind TEXT NOT NULL,
    language TEXT NOT NULL DEFAULT ''
);`

	createLanguagesSQLite = `CREATE TABLE IF NOT EXISTS languages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE CHECK (name <> ''),
    parent_id INTEGER
);`

	createStudentsPostgres = `CREATE TABLE IF NOT EXISTS students (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL CHECK (name <> '')
);`

	createCoursesPostgres = `CREATE TABLE IF NOT EXISTS courses (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE CHECK (name <> ''),
    kind TEXT NOT NULL,
    language TEXT NOT NULL DEFAULT ''
);`

	createLanguagesPostgres = `CREATE TABLE IF NOT EXISTS languages (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE CHECK (name <> ''),
    parent_id BIGINT
);`
)

// sqliteSchema lists the sqlite CREATE TABLE statements.
var sqliteSchema = []string{
	createStudentsSQLite,
	createCoursesSQLite,
	createLanguagesSQLite,
}

// postgresSchema lists the postgres CREATE TABLE statements.
var postgresSchema = []string{
	createStudentsPostgres,
	createCoursesPostgres,
	createLanguagesPostgres,
}
