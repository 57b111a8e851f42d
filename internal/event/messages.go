package event

// Event names carried as kafka message keys.
const (
	POST_CREATED  = "post.created"
	POST_REACTION = "post.reaction"
)

type PostCreatedMessage struct {
	PostID   string `json:"post_id"`
	AuthorID string `json:"author_id"`
}

// PostReactionMessage is published after every committed reaction change.
// The audit worker uses it to re-derive the post's counters from the ledger.
type PostReactionMessage struct {
	PostID   string `json:"post_id"`
	UserID   string `json:"user_id"`
	Reaction string `json:"reaction"`
	Removed  bool   `json:"removed"`
}
