package storage

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// History stores past analysis conversations in SQLite. Each interaction is
// one (query, response) pair belonging to a conversation.
type History struct {
	conn *sql.DB
}

// Conversation summarizes one stored conversation; the title is the first
// query of the conversation.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartedAt time.Time `json:"started_at"`
}

// Interaction is one stored query/response pair.
type Interaction struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// OpenHistory opens or creates the history database at the given path.
func OpenHistory(path string) (*History, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return &History{conn: conn}, nil
}

// Close closes the database connection.
func (h *History) Close() error {
	return h.conn.Close()
}

// NewConversationID returns a fresh conversation identifier.
func NewConversationID() string {
	return uuid.NewString()
}

// Add appends one interaction to a conversation.
func (h *History) Add(conversationID, query, response string) error {
	_, err := h.conn.Exec(
		`INSERT INTO chat_history (conversation_id, timestamp, query, response) VALUES (?, ?, ?, ?)`,
		conversationID, time.Now().UTC().Format(time.RFC3339Nano), query, response,
	)
	if err != nil {
		return fmt.Errorf("add interaction: %w", err)
	}
	return nil
}

// Conversations lists stored conversations, newest first, titled by their
// first query.
func (h *History) Conversations() ([]Conversation, error) {
	rows, err := h.conn.Query(`
		SELECT t1.conversation_id, t1.query, t1.timestamp
		FROM chat_history t1
		JOIN (
			SELECT conversation_id, MIN(timestamp) AS min_ts
			FROM chat_history
			GROUP BY conversation_id
		) t2 ON t1.conversation_id = t2.conversation_id AND t1.timestamp = t2.min_ts
		ORDER BY t1.timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var convos []Conversation
	for rows.Next() {
		var c Conversation
		var ts string
		if err := rows.Scan(&c.ID, &c.Title, &ts); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		c.StartedAt, _ = time.Parse(time.RFC3339Nano, ts)
		convos = append(convos, c)
	}
	return convos, rows.Err()
}

// Load returns all interactions of one conversation in chronological order.
func (h *History) Load(conversationID string) ([]Interaction, error) {
	rows, err := h.conn.Query(
		`SELECT query, response, timestamp FROM chat_history WHERE conversation_id = ? ORDER BY timestamp ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	defer rows.Close()

	var items []Interaction
	for rows.Next() {
		var it Interaction
		var ts string
		if err := rows.Scan(&it.Query, &it.Response, &ts); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		it.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		items = append(items, it)
	}
	return items, rows.Err()
}

// Delete removes all interactions of a conversation.
func (h *History) Delete(conversationID string) error {
	_, err := h.conn.Exec(`DELETE FROM chat_history WHERE conversation_id = ?`, conversationID)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}
