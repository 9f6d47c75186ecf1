package db

// SchemaSQL is the complete schema for fresh tracker installs.
//
// This is the single source of truth for the database schema. Tests load it
// via GetSchemaSQL() so repository code and tests cannot drift: a column
// referenced by a repository but missing here fails immediately with
// "no such column".
//
// Seven logical tables: tasks, goals, decision_log, event_log, approvals,
// plus the two per-session cursor tables inbound_state and approval_state.
const SchemaSQL = `
-- Tasks (the scheduler's work queue)
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL CHECK(status IN ('pending', 'eligible', 'in_progress', 'review', 'completed')) DEFAULT 'pending',
	priority TEXT CHECK(priority IN ('low', 'medium', 'high', 'critical')) DEFAULT 'medium',
	prerequisites TEXT,
	impact_score INTEGER NOT NULL DEFAULT 5,
	urgency_score INTEGER NOT NULL DEFAULT 5,
	effort_score INTEGER NOT NULL DEFAULT 5,
	auto_complete INTEGER NOT NULL DEFAULT 0,
	completion_criteria TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	started_at DATETIME,
	completed_at DATETIME,
	created_by TEXT DEFAULT 'agent'
);

-- Goals (high-level objectives; decomposition into tasks is external)
CREATE TABLE IF NOT EXISTS goals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	description TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('active', 'completed')) DEFAULT 'active',
	source TEXT DEFAULT 'user',
	tasks_generated INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Decision log (append-only audit trail)
CREATE TABLE IF NOT EXISTS decision_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id INTEGER NOT NULL,
	decision TEXT,
	reasoning TEXT,
	outcome TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (task_id) REFERENCES tasks(id)
);

-- Event log (append-only; handled is the only mutable field)
CREATE TABLE IF NOT EXISTS event_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type TEXT,
	payload TEXT,
	handled INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Approvals (pending/approved/rejected workflow per task)
CREATE TABLE IF NOT EXISTS approvals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id INTEGER NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('pending', 'approved', 'rejected')) DEFAULT 'pending',
	session_key TEXT,
	requested_at_ms INTEGER,
	decided_at_ms INTEGER,
	decision_text TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (task_id) REFERENCES tasks(id)
);

-- Inbound message watermark per session (dedupes external goal intake)
CREATE TABLE IF NOT EXISTS inbound_state (
	session_key TEXT PRIMARY KEY,
	last_ts INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Approval batch watermark per session (throttles batch notifications)
CREATE TABLE IF NOT EXISTS approval_state (
	session_key TEXT PRIMARY KEY,
	last_batch_sent_ms INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_approvals_task ON approvals(task_id, status);
CREATE INDEX IF NOT EXISTS idx_decision_log_task ON decision_log(task_id);
`

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
