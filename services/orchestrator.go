package services

import (
	"context"
	"log"
	"sync"
	"time"

	"quizroom/models"

	"github.com/jonboulle/clockwork"
)

// intermissionDelay is the fixed answer-reveal pause between closing one
// question and revealing the next.
const intermissionDelay = 3 * time.Second

// Conn is one client connection as the orchestrator sees it.
type Conn interface {
	Emit(event string, payload interface{})
	JoinRoom(roomCode string)
	LeaveRoom(roomCode string)
}

// RoomBroadcaster delivers an event to every connection in a room.
type RoomBroadcaster interface {
	EmitToRoom(roomCode, event string, payload interface{})
}

// QuestionSource loads durable trivia content into in-game questions.
type QuestionSource interface {
	GameQuestions(ctx context.Context, triviaSetID uint) ([]models.Question, error)
}

type sessionState int

const (
	stateIdle sessionState = iota
	stateQuestionActive
	stateIntermission
)

// roomSession is the orchestrator's per-room tracking: who has answered the
// current question and the single pending advance timer. Owned exclusively
// by the orchestrator; everything in it is guarded by mu.
//
// epoch increments on every advance. Timer callbacks capture the epoch they
// were scheduled under and give up if it has moved on, which is what makes
// the timer-vs-all-answered race resolve to exactly one advance.
type roomSession struct {
	mu       sync.Mutex
	state    sessionState
	epoch    uint64
	answered map[string]struct{}
	timer    clockwork.Timer
}

// Orchestrator drives the per-room state machine: question reveal, answer
// collection, scoring and advancement, coordinating one countdown timer per
// room.
type Orchestrator struct {
	manager     *GameManager
	broadcaster RoomBroadcaster
	questions   QuestionSource // may be nil when no durable content is wired
	clock       clockwork.Clock

	mu       sync.Mutex
	sessions map[string]*roomSession
}

func NewOrchestrator(manager *GameManager, broadcaster RoomBroadcaster, questions QuestionSource, clock clockwork.Clock) *Orchestrator {
	return &Orchestrator{
		manager:     manager,
		broadcaster: broadcaster,
		questions:   questions,
		clock:       clock,
		sessions:    make(map[string]*roomSession),
	}
}

func (o *Orchestrator) session(roomCode string) *roomSession {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sessions[roomCode]
}

// HandleCreateGame creates a room from inline questions or a stored trivia
// set, joins the creator's connection to it and reports the room code back.
func (o *Orchestrator) HandleCreateGame(ctx context.Context, conn Conn, msg CreateGameMessage) {
	questions := msg.Questions
	if msg.TriviaSetID != 0 {
		if o.questions == nil {
			conn.Emit(EventError, ErrorPayload{Message: "Trivia sets are not available"})
			return
		}
		loaded, err := o.questions.GameQuestions(ctx, msg.TriviaSetID)
		if err != nil {
			log.Printf("Failed to load trivia set %d: %v", msg.TriviaSetID, err)
			conn.Emit(EventError, ErrorPayload{Message: "Trivia set not found"})
			return
		}
		questions = loaded
	}

	game, err := o.manager.CreateGame(ctx, msg.HostID, questions)
	if err != nil {
		log.Printf("Failed to create game for host %s: %v", msg.HostID, err)
		conn.Emit(EventError, ErrorPayload{Message: "Failed to create game"})
		return
	}

	conn.JoinRoom(game.RoomCode)
	conn.Emit(EventGameCreated, GameCreatedPayload{RoomCode: game.RoomCode, Game: game})
}

// HandleJoinGame adds a player to a waiting room and announces them.
func (o *Orchestrator) HandleJoinGame(ctx context.Context, conn Conn, msg JoinGameMessage) {
	game, err := o.manager.AddPlayer(ctx, msg.RoomCode, msg.Player)
	if err != nil {
		conn.Emit(EventError, ErrorPayload{Message: "Game not found or already started"})
		return
	}

	conn.JoinRoom(msg.RoomCode)
	conn.Emit(EventJoinedGame, JoinedGamePayload{Game: game})
	o.broadcaster.EmitToRoom(msg.RoomCode, EventPlayerJoined, PlayerJoinedPayload{
		Player:  msg.Player,
		Players: game.Players,
	})
}

// HandleLeaveGame removes a player. Leaving never advances the question by
// itself, but the all-answered threshold is re-evaluated against the reduced
// player count so a leave cannot strand a room waiting on the departed
// player's answer.
func (o *Orchestrator) HandleLeaveGame(ctx context.Context, conn Conn, msg LeaveGameMessage) {
	game, err := o.manager.RemovePlayer(ctx, msg.RoomCode, msg.PlayerID)
	if err != nil {
		log.Printf("Failed to remove player %s from %s: %v", msg.PlayerID, msg.RoomCode, err)
		return
	}

	if conn != nil {
		conn.LeaveRoom(msg.RoomCode)
	}
	o.broadcaster.EmitToRoom(msg.RoomCode, EventPlayerLeft, PlayerLeftPayload{
		PlayerID: msg.PlayerID,
		Players:  game.Players,
	})

	s := o.session(msg.RoomCode)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.answered, msg.PlayerID)
	if game.Status == models.GameStatusPlaying {
		o.maybeAdvanceLocked(ctx, msg.RoomCode, s, len(game.Players))
	}
}

// HandleStartGame starts a waiting room and reveals question 0.
func (o *Orchestrator) HandleStartGame(ctx context.Context, conn Conn, msg RoomMessage) {
	game, err := o.manager.StartGame(ctx, msg.RoomCode)
	if err != nil {
		conn.Emit(EventError, ErrorPayload{Message: "Cannot start game"})
		return
	}

	s := &roomSession{answered: make(map[string]struct{})}
	o.mu.Lock()
	o.sessions[msg.RoomCode] = s
	o.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	o.openQuestionLocked(msg.RoomCode, s, game, EventGameStarted)
}

// HandleSubmitAnswer scores an answer, privately reports the result to the
// submitting client and advances immediately once every player has answered.
func (o *Orchestrator) HandleSubmitAnswer(ctx context.Context, conn Conn, msg SubmitAnswerMessage) {
	result, err := o.manager.SubmitAnswer(ctx, msg.RoomCode, msg.PlayerID, msg.AnswerIndex, msg.ElapsedSeconds)
	if err != nil {
		conn.Emit(EventError, ErrorPayload{Message: "Failed to submit answer"})
		return
	}

	conn.Emit(EventAnswerResult, AnswerResultPayload{Correct: result.Correct, Points: result.Points})

	s := o.session(msg.RoomCode)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answered[msg.PlayerID] = struct{}{}
	o.maybeAdvanceLocked(ctx, msg.RoomCode, s, len(result.Game.Players))
}

// HandleNextQuestion is the host forcing an advance. It funnels into the
// same guarded path as the timer and the all-answered trigger.
func (o *Orchestrator) HandleNextQuestion(ctx context.Context, conn Conn, msg RoomMessage) {
	s := o.session(msg.RoomCode)
	if s == nil {
		conn.Emit(EventError, ErrorPayload{Message: "No active round to advance"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateQuestionActive {
		conn.Emit(EventError, ErrorPayload{Message: "No active round to advance"})
		return
	}
	o.advanceLocked(ctx, msg.RoomCode, s, s.epoch)
}

// HandleGetLeaderboard reports the current standings to one client.
func (o *Orchestrator) HandleGetLeaderboard(ctx context.Context, conn Conn, msg RoomMessage) {
	leaderboard, err := o.manager.Leaderboard(ctx, msg.RoomCode)
	if err != nil {
		conn.Emit(EventError, ErrorPayload{Message: "Failed to get leaderboard"})
		return
	}
	conn.Emit(EventLeaderboardUpdate, LeaderboardPayload{Leaderboard: leaderboard})
}

// HandleGetCurrentQuestion resyncs a client that reloaded mid-game.
func (o *Orchestrator) HandleGetCurrentQuestion(ctx context.Context, conn Conn, msg RoomMessage) {
	game, err := o.manager.GetGame(ctx, msg.RoomCode)
	if err != nil || game.Status != models.GameStatusPlaying {
		conn.Emit(EventError, ErrorPayload{Message: "Game not found or not started"})
		return
	}

	q := game.CurrentQuestion()
	if q == nil {
		conn.Emit(EventError, ErrorPayload{Message: "No active question"})
		return
	}
	conn.Emit(EventCurrentQuestion, CurrentQuestionPayload{
		QuestionPayload: questionPayload(game, q),
		CorrectAnswer:   q.CorrectAnswer,
	})
}

// HandleDisconnect treats a dropped player connection as leave-game.
func (o *Orchestrator) HandleDisconnect(ctx context.Context, roomCode, playerID string) {
	if roomCode == "" || playerID == "" {
		return
	}
	o.HandleLeaveGame(ctx, nil, LeaveGameMessage{RoomCode: roomCode, PlayerID: playerID})
}

// openQuestionLocked reveals the game's current question and arms its
// one-shot countdown timer. Caller holds s.mu.
func (o *Orchestrator) openQuestionLocked(roomCode string, s *roomSession, game *models.Game, event string) {
	q := game.CurrentQuestion()
	if q == nil {
		log.Printf("No current question to open in room %s", roomCode)
		return
	}

	s.state = stateQuestionActive
	s.answered = make(map[string]struct{})

	payload := questionPayload(game, q)
	if event == EventGameStarted {
		o.broadcaster.EmitToRoom(roomCode, event, GameStartedPayload{Game: game, Question: payload})
	} else {
		o.broadcaster.EmitToRoom(roomCode, event, NextQuestionPayload{Question: payload})
	}

	epoch := s.epoch
	s.timer = o.clock.AfterFunc(time.Duration(q.TimeLimit)*time.Second, func() {
		o.advance(context.Background(), roomCode, epoch)
	})
}

// maybeAdvanceLocked advances when every remaining player has answered the
// active question. Caller holds s.mu.
func (o *Orchestrator) maybeAdvanceLocked(ctx context.Context, roomCode string, s *roomSession, playerCount int) {
	if s.state != stateQuestionActive || playerCount == 0 {
		return
	}
	if len(s.answered) >= playerCount {
		o.advanceLocked(ctx, roomCode, s, s.epoch)
	}
}

// advance is the timer-expiry entry into the advance path.
func (o *Orchestrator) advance(ctx context.Context, roomCode string, epoch uint64) {
	s := o.session(roomCode)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o.advanceLocked(ctx, roomCode, s, epoch)
}

// advanceLocked closes the current question and either finishes the game or
// schedules the intermission before the next reveal. The epoch check makes
// it a no-op for whichever of {timer fired, all answered} lost the race, so
// advancement runs at most once per question. Caller holds s.mu.
func (o *Orchestrator) advanceLocked(ctx context.Context, roomCode string, s *roomSession, epoch uint64) {
	if s.state != stateQuestionActive || s.epoch != epoch {
		return
	}

	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.answered = make(map[string]struct{})

	game, err := o.manager.AdvanceQuestion(ctx, roomCode)
	if err != nil {
		// Room stays in its last consistent state; the host can force a
		// retry over the socket.
		log.Printf("Failed to advance question in room %s: %v", roomCode, err)
		return
	}

	if game.Status == models.GameStatusFinished {
		leaderboard, err := o.manager.Leaderboard(ctx, roomCode)
		if err != nil {
			log.Printf("Failed to load final leaderboard for room %s: %v", roomCode, err)
			leaderboard = []models.LeaderboardEntry{}
		}
		o.broadcaster.EmitToRoom(roomCode, EventGameFinished, GameFinishedPayload{Leaderboard: leaderboard})

		s.state = stateIdle
		o.mu.Lock()
		delete(o.sessions, roomCode)
		o.mu.Unlock()
		return
	}

	s.state = stateIntermission
	next := s.epoch
	o.clock.AfterFunc(intermissionDelay, func() {
		o.revealNext(context.Background(), roomCode, next)
	})
}

// revealNext ends the intermission and opens the question the aggregate
// already advanced to.
func (o *Orchestrator) revealNext(ctx context.Context, roomCode string, epoch uint64) {
	s := o.session(roomCode)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateIntermission || s.epoch != epoch {
		return
	}

	game, err := o.manager.GetGame(ctx, roomCode)
	if err != nil {
		log.Printf("Failed to load room %s after intermission: %v", roomCode, err)
		return
	}
	o.openQuestionLocked(roomCode, s, game, EventNextQuestion)
}
