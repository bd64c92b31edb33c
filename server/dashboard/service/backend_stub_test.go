package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"schooldesk/server/common/infra/backend"
	"schooldesk/server/dashboard/domain"
)

// fakeSchoolBackend is an in-memory stand-in for the school-management
// REST backend, covering the slices of the contract the services exercise.
type fakeSchoolBackend struct {
	t   *testing.T
	srv *httptest.Server

	mu            sync.Mutex
	conversations []domain.Conversation
	messages      map[int64][]domain.Message
	notifications map[int64]*domain.Notification
	forms         map[int64]*domain.Form
	rewards       map[int64]domain.RewardRecord
	evaluations   []domain.Evaluation
	nextID        int64

	requests []string

	failConversations bool
	convGate          chan struct{}
	convGateStarted   chan struct{}
}

func newFakeSchoolBackend(t *testing.T) *fakeSchoolBackend {
	b := &fakeSchoolBackend{
		t:             t,
		messages:      map[int64][]domain.Message{},
		notifications: map[int64]*domain.Notification{},
		forms:         map[int64]*domain.Form{},
		rewards:       map[int64]domain.RewardRecord{},
		nextID:        100,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /messages/conversations", b.listConversations)
	mux.HandleFunc("POST /messages/conversations", b.createConversation)
	mux.HandleFunc("GET /messages/conversations/{id}/messages", b.listMessages)
	mux.HandleFunc("POST /messages/conversations/{id}/messages", b.sendMessage)
	mux.HandleFunc("POST /messages/conversations/{id}/participants", b.addParticipant)
	mux.HandleFunc("DELETE /messages/conversations/{id}/participants/{pid}", b.removeParticipant)
	mux.HandleFunc("GET /notifications", b.listNotifications)
	mux.HandleFunc("POST /notifications/{id}/read", b.markNotificationRead)
	mux.HandleFunc("DELETE /notifications/{id}", b.deleteNotification)
	mux.HandleFunc("GET /forms", b.listForms)
	mux.HandleFunc("POST /forms", b.submitForm)
	mux.HandleFunc("PUT /forms/{id}/status", b.updateFormStatus)
	mux.HandleFunc("PUT /forms/{id}/assign", b.assignFormDepartment)
	mux.HandleFunc("GET /rewards", b.listRewards)
	mux.HandleFunc("POST /rewards", b.createReward)
	mux.HandleFunc("PUT /rewards/{id}", b.updateReward)
	mux.HandleFunc("DELETE /rewards/{id}", b.deleteReward)
	mux.HandleFunc("GET /evaluations", b.listEvaluations)
	mux.HandleFunc("POST /evaluations", b.createEvaluation)

	logged := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	})
	b.srv = httptest.NewServer(logged)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeSchoolBackend) client() *backend.Client {
	return backend.NewClient(b.srv.URL, time.Second, nil)
}

func (b *fakeSchoolBackend) requestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func (b *fakeSchoolBackend) allocID() int64 {
	b.nextID++
	return b.nextID
}

func (b *fakeSchoolBackend) seedConversation(conv domain.Conversation, msgs ...domain.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations = append(b.conversations, conv)
	b.messages[conv.ID] = append(b.messages[conv.ID], msgs...)
}

func (b *fakeSchoolBackend) seedNotification(n domain.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	copied := n
	b.notifications[n.ID] = &copied
}

func (b *fakeSchoolBackend) seedForm(f domain.Form) {
	b.mu.Lock()
	defer b.mu.Unlock()
	copied := f
	b.forms[f.ID] = &copied
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func pathInt(r *http.Request, name string) int64 {
	v, _ := strconv.ParseInt(r.PathValue(name), 10, 64)
	return v
}

func (b *fakeSchoolBackend) listConversations(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	gate, started := b.convGate, b.convGateStarted
	b.convGate, b.convGateStarted = nil, nil
	fail := b.failConversations
	b.mu.Unlock()
	if gate != nil {
		started <- struct{}{}
		<-gate
	}
	if fail {
		writeMessage(w, http.StatusInternalServerError, "conversation list unavailable")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	items := append([]domain.Conversation(nil), b.conversations...)
	writeJSON(w, http.StatusOK, items)
}

func (b *fakeSchoolBackend) createConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type         domain.ConversationType `json:"type"`
		Title        string                  `json:"title"`
		Participants []int64                 `json:"participants"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Type == domain.ConversationPrivate && len(req.Participants) != 2 {
		writeMessage(w, http.StatusBadRequest, "Private conversations must have exactly 2 participants")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	conv := domain.Conversation{ID: b.allocID(), Title: req.Title, Type: req.Type, UpdatedAt: time.Now()}
	for _, pid := range req.Participants {
		conv.Participants = append(conv.Participants, domain.Participant{UserID: pid, Username: fmt.Sprintf("user%d", pid)})
	}
	b.conversations = append(b.conversations, conv)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Conversation created successfully", "conversation_id": conv.ID})
}

func (b *fakeSchoolBackend) listMessages(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := append([]domain.Message(nil), b.messages[pathInt(r, "id")]...)
	writeJSON(w, http.StatusOK, items)
}

func (b *fakeSchoolBackend) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	convID := pathInt(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	msg := domain.Message{ID: b.allocID(), ConversationID: convID, SenderRole: domain.RoleTeacher, Content: req.Content, SentAt: time.Now()}
	b.messages[convID] = append(b.messages[convID], msg)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Message sent successfully", "message_id": msg.ID})
}

func (b *fakeSchoolBackend) addParticipant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ParticipantID int64 `json:"participant_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	convID := pathInt(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.conversations {
		if b.conversations[i].ID == convID {
			b.conversations[i].Participants = append(b.conversations[i].Participants,
				domain.Participant{UserID: req.ParticipantID, Username: fmt.Sprintf("user%d", req.ParticipantID)})
			writeMessage(w, http.StatusOK, "Participant added successfully")
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Conversation not found")
}

func (b *fakeSchoolBackend) removeParticipant(w http.ResponseWriter, r *http.Request) {
	convID, pid := pathInt(r, "id"), pathInt(r, "pid")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.conversations {
		if b.conversations[i].ID != convID {
			continue
		}
		kept := b.conversations[i].Participants[:0]
		for _, p := range b.conversations[i].Participants {
			if p.UserID != pid {
				kept = append(kept, p)
			}
		}
		b.conversations[i].Participants = kept
		writeMessage(w, http.StatusOK, "Participant removed successfully")
		return
	}
	writeMessage(w, http.StatusNotFound, "Conversation not found")
}

func (b *fakeSchoolBackend) listNotifications(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := []domain.Notification{}
	for _, n := range b.notifications {
		items = append(items, *n)
	}
	writeJSON(w, http.StatusOK, items)
}

func (b *fakeSchoolBackend) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, ok := b.notifications[pathInt(r, "id")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Notification not found")
		return
	}
	n.IsRead = true
	writeMessage(w, http.StatusOK, "Notification marked as read")
}

func (b *fakeSchoolBackend) deleteNotification(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.notifications, pathInt(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (b *fakeSchoolBackend) listForms(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := []domain.Form{}
	for _, f := range b.forms {
		if t := r.URL.Query().Get("type"); t != "" && string(f.Type) != t {
			continue
		}
		if s := r.URL.Query().Get("status"); s != "" && string(f.Status) != s {
			continue
		}
		items = append(items, *f)
	}
	writeJSON(w, http.StatusOK, items)
}

func (b *fakeSchoolBackend) submitForm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type         domain.FormType `json:"type"`
		Content      string          `json:"content"`
		DepartmentID *int64          `json:"department_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	b.mu.Lock()
	defer b.mu.Unlock()
	form := domain.Form{
		ID:             b.allocID(),
		Type:           req.Type,
		Content:        req.Content,
		Status:         domain.FormPending,
		DepartmentID:   req.DepartmentID,
		SubmissionDate: time.Now(),
	}
	b.forms[form.ID] = &form
	writeJSON(w, http.StatusCreated, form)
}

func (b *fakeSchoolBackend) updateFormStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.FormStatus `json:"status"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.forms[pathInt(r, "id")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Form not found")
		return
	}
	f.Status = req.Status
	writeMessage(w, http.StatusOK, "Form status updated")
}

func (b *fakeSchoolBackend) assignFormDepartment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DepartmentID int64 `json:"department_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.forms[pathInt(r, "id")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Form not found")
		return
	}
	f.DepartmentID = &req.DepartmentID
	writeMessage(w, http.StatusOK, "Form assigned")
}

func (b *fakeSchoolBackend) listRewards(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := []domain.RewardRecord{}
	for _, rec := range b.rewards {
		items = append(items, rec)
	}
	writeJSON(w, http.StatusOK, items)
}

func (b *fakeSchoolBackend) createReward(w http.ResponseWriter, r *http.Request) {
	var rec domain.RewardRecord
	_ = json.NewDecoder(r.Body).Decode(&rec)
	b.mu.Lock()
	defer b.mu.Unlock()
	rec.ID = b.allocID()
	b.rewards[rec.ID] = rec
	writeJSON(w, http.StatusCreated, rec)
}

func (b *fakeSchoolBackend) updateReward(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content     *string             `json:"content"`
		ContentType *domain.ContentType `json:"content_type"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := b.rewards[pathInt(r, "id")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Reward not found")
		return
	}
	if req.Content != nil {
		rec.Content = *req.Content
	}
	if req.ContentType != nil {
		rec.ContentType = *req.ContentType
	}
	b.rewards[rec.ID] = rec
	writeJSON(w, http.StatusOK, rec)
}

func (b *fakeSchoolBackend) deleteReward(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.rewards, pathInt(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (b *fakeSchoolBackend) listEvaluations(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := append([]domain.Evaluation(nil), b.evaluations...)
	writeJSON(w, http.StatusOK, items)
}

func (b *fakeSchoolBackend) createEvaluation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentID int64  `json:"student_id"`
		Content   string `json:"content"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	b.mu.Lock()
	defer b.mu.Unlock()
	eval := domain.Evaluation{ID: b.allocID(), StudentID: req.StudentID, Content: req.Content, EvaluationDate: time.Now()}
	b.evaluations = append(b.evaluations, eval)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Evaluation created successfully", "evaluation_id": eval.ID})
}
