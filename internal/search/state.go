package search

// State é o estado de um Controller.
// Idle -> Loading -> {Ready, ErrorSoft}; ErrorSoft sempre resolve para Ready.
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StateErrorSoft State = "error-soft"
)

// StateObserver recebe cada transição de estado, na ordem em que ocorrem.
// É chamado fora do lock do controlador.
type StateObserver func(State)
