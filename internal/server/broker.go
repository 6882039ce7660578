package server

import (
	"encoding/json"
	"sync"
)

// PostEvent is the payload published to a post's subscribers.
type PostEvent struct {
	Type      string `json:"type"`
	PostID    string `json:"postId"`
	CommentID string `json:"commentId,omitempty"`
	UserID    int64  `json:"userId,omitempty"`
}

const (
	eventCommentAdded   = "comment_added"
	eventCommentDeleted = "comment_deleted"
	eventPostLiked      = "post_liked"
	eventPostUnliked    = "post_unliked"
)

// Broker is an in-process pub/sub for SSE events, keyed by post ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the given post.
func (b *Broker) Subscribe(postID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[postID] == nil {
		b.subs[postID] = make(map[chan []byte]struct{})
	}
	b.subs[postID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(postID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[postID], ch)
	if len(b.subs[postID]) == 0 {
		delete(b.subs, postID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of event.PostID.
func (b *Broker) Publish(event PostEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[event.PostID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

func (b *Broker) subscribers(postID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[postID])
}
