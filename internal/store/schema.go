package store

// Schema owned by the desktop application. Times are unix seconds stored as
// REAL; media offsets are integer milliseconds.
const schema = `
	CREATE TABLE IF NOT EXISTS series (
		num INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		comment TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS episodes (
		num INTEGER PRIMARY KEY AUTOINCREMENT,
		seriesNum INTEGER NOT NULL REFERENCES series(num) ON DELETE CASCADE,
		id TEXT NOT NULL,
		mediaFilename TEXT NOT NULL DEFAULT '',
		tapeLength INTEGER NOT NULL DEFAULT 0,
		comment TEXT NOT NULL DEFAULT '',
		lastSaveTime REAL NOT NULL DEFAULT 0,
		UNIQUE(seriesNum, id)
	);

	CREATE TABLE IF NOT EXISTS transcripts (
		num INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		episodeNum INTEGER NOT NULL DEFAULT 0,
		sourceTranscript INTEGER NOT NULL DEFAULT 0,
		clipNum INTEGER NOT NULL DEFAULT 0,
		sortOrder INTEGER NOT NULL DEFAULT 0,
		transcriber TEXT NOT NULL DEFAULT '',
		clipStart INTEGER NOT NULL DEFAULT 0,
		clipStop INTEGER NOT NULL DEFAULT 0,
		text TEXT NOT NULL DEFAULT '',
		comment TEXT NOT NULL DEFAULT '',
		lastSaveTime REAL NOT NULL DEFAULT 0,
		UNIQUE(id, episodeNum, clipNum, sortOrder)
	);

	CREATE TABLE IF NOT EXISTS collections (
		num INTEGER PRIMARY KEY AUTOINCREMENT,
		parentNum INTEGER NOT NULL DEFAULT 0,
		id TEXT NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		UNIQUE(parentNum, id)
	);

	CREATE TABLE IF NOT EXISTS clips (
		num INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		collectionNum INTEGER NOT NULL REFERENCES collections(num) ON DELETE CASCADE,
		episodeNum INTEGER NOT NULL DEFAULT 0,
		mediaFilename TEXT NOT NULL DEFAULT '',
		clipStart INTEGER NOT NULL DEFAULT 0,
		clipStop INTEGER NOT NULL DEFAULT 0,
		sortOrder INTEGER NOT NULL DEFAULT 0,
		lastSaveTime REAL NOT NULL DEFAULT 0,
		UNIQUE(collectionNum, id)
	);

	CREATE TABLE IF NOT EXISTS clip_keywords (
		clipNum INTEGER NOT NULL REFERENCES clips(num) ON DELETE CASCADE,
		keywordGroup TEXT NOT NULL DEFAULT '',
		keyword TEXT NOT NULL,
		UNIQUE(clipNum, keywordGroup, keyword)
	);

	CREATE TABLE IF NOT EXISTS record_locks (
		tableName TEXT NOT NULL,
		recordNum INTEGER NOT NULL,
		lockedBy TEXT NOT NULL,
		lockedAt REAL NOT NULL,
		PRIMARY KEY (tableName, recordNum)
	);
`
