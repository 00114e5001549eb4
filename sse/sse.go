package sse

import (
	"encoding/json"
	"sync"

	"spendsense/api/logger"
	"spendsense/api/models"

	"go.uber.org/zap"
)

// ClientStream is one open SSE connection waiting for advisor output.
type ClientStream struct {
	Messages chan string
	Done     chan struct{}
}

var (
	connections = make(map[string]*ClientStream)
	mu          sync.RWMutex
)

// Register attaches a stream for a conversation, replacing any previous
// one. Only one client streams a conversation at a time.
func Register(conversationID string) *ClientStream {
	stream := &ClientStream{
		Messages: make(chan string, 100),
		Done:     make(chan struct{}),
	}

	mu.Lock()
	connections[conversationID] = stream
	mu.Unlock()

	logger.Get().Info("SSE connection registered",
		zap.String("conversation_id", conversationID))
	return stream
}

// Unregister drops the stream for a conversation if it is still the one
// passed in; a replacement registered meanwhile is left alone.
func Unregister(conversationID string, stream *ClientStream) {
	mu.Lock()
	if connections[conversationID] == stream {
		delete(connections, conversationID)
	}
	mu.Unlock()

	logger.Get().Info("SSE connection unregistered",
		zap.String("conversation_id", conversationID))
}

// SendChunkToClient forwards one advisor response chunk to the stream for
// its conversation. The final chunk turns into the [DONE] marker plus the
// done signal. Sends never block; a wedged client loses chunks.
func SendChunkToClient(conversationID string, chunk string) {
	mu.RLock()
	stream, ok := connections[conversationID]
	mu.RUnlock()
	if !ok {
		logger.Get().Debug("no client stream for conversation",
			zap.String("conversation_id", conversationID))
		return
	}

	var aiResponse models.AIResponse
	if err := json.Unmarshal([]byte(chunk), &aiResponse); err != nil {
		logger.Get().Error("failed to unmarshal advisor chunk",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		return
	}

	if aiResponse.LastMessage {
		select {
		case stream.Messages <- "[DONE]":
		default:
			logger.Get().Warn("dropped [DONE] marker, stream full",
				zap.String("conversation_id", conversationID))
		}
		select {
		case stream.Done <- struct{}{}:
		default:
		}
		return
	}

	select {
	case stream.Messages <- aiResponse.Text:
	default:
		logger.Get().Warn("dropped advisor chunk, stream full",
			zap.String("conversation_id", conversationID))
	}
}
