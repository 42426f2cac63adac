package registration

import (
	"sync"

	"github.com/stake-plus/govtool/src/metadata"
)

// FormStep is the wizard step holding the storage information form.
const FormStep = 3

// DashboardPath is where "back to dashboard" navigates.
const DashboardPath = "/dashboard"

// Action is a button handler on a status modal.
type Action string

const (
	ActionNone            Action = ""
	ActionBackToForm      Action = "backToForm"
	ActionBackToDashboard Action = "backToDashboard"
)

// Modal is the content of a status modal.
type Modal struct {
	Status       string `json:"status"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	ButtonText   string `json:"buttonText"`
	CancelText   string `json:"cancelText,omitempty"`
	FeedbackText string `json:"feedbackText,omitempty"`
	DataTestID   string `json:"dataTestId,omitempty"`
	OnSubmit     Action `json:"onSubmit"`
	OnCancel     Action `json:"onCancel,omitempty"`
	OnFeedback   Action `json:"onFeedback,omitempty"`
}

// Presenter shows modals and moves the user around.
type Presenter interface {
	OpenModal(m Modal)
	CloseModal()
	SetStep(step int)
	Navigate(path string)
}

// RunAction performs a modal button action. Both actions close the modal.
func RunAction(p Presenter, a Action) {
	switch a {
	case ActionBackToForm:
		p.SetStep(FormStep)
		p.CloseModal()
	case ActionBackToDashboard:
		p.Navigate(DashboardPath)
		p.CloseModal()
	}
}

var errorModals = map[metadata.ValidationErrorKind]struct{ title, message string }{
	metadata.InvalidURL: {
		"The URL You Entered Cannot Be Found",
		"GovTool cannot find the URL that you entered. Please check it and re-enter.",
	},
	metadata.InvalidJSON: {
		"Your External Data Is Not a Valid JSON File",
		"The data at the URL you entered could not be read as JSON. Please check the file and re-enter the URL.",
	},
	metadata.InvalidJSONLD: {
		"Your External Data Is Not a Valid JSON-LD File",
		"The data at the URL you entered is not valid JSON-LD metadata. Please upload the file you downloaded from GovTool.",
	},
	metadata.InvalidHash: {
		"Your External Data Does Not Match the Original File",
		"GovTool has detected a mismatch between the external data and the file you downloaded. Please upload the original file and try again.",
	},
	metadata.FetchError: {
		"GovTool Cannot Process the URL",
		"GovTool could not fetch the data at the URL you entered. Please check that it is publicly reachable and try again.",
	},
}

// ErrorModal returns the status modal for a validation failure.
func ErrorModal(kind metadata.ValidationErrorKind) (Modal, bool) {
	c, ok := errorModals[kind]
	if !ok {
		return Modal{}, false
	}
	return Modal{
		Status:       "warning",
		Title:        c.title,
		Message:      c.message,
		ButtonText:   "Go to Data Edit Screen",
		CancelText:   "Go to Dashboard",
		FeedbackText: "Feedback",
		OnSubmit:     ActionBackToForm,
		OnCancel:     ActionBackToDashboard,
		OnFeedback:   ActionBackToDashboard,
	}, true
}

// SuccessModal is shown after the registration transaction is submitted.
func SuccessModal() Modal {
	return Modal{
		Status:     "success",
		Title:      "Registration Transaction Submitted!",
		Message:    "The confirmation of your registration might take a bit of time but you can track it using the transaction ID.",
		ButtonText: "Go to Dashboard",
		DataTestID: "governance-action-submitted-modal",
		OnSubmit:   ActionBackToDashboard,
	}
}

// View is what a Recorder has been told to show.
type View struct {
	Modal     *Modal `json:"modal,omitempty"`
	ModalOpen bool   `json:"modalOpen"`
	Step      int    `json:"step"`
	Path      string `json:"path"`
}

// Recorder is a Presenter that keeps the latest view for clients that poll
// for it, such as the HTTP API.
type Recorder struct {
	mu   sync.Mutex
	view View
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) OpenModal(m Modal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.Modal = &m
	r.view.ModalOpen = true
}

func (r *Recorder) CloseModal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.ModalOpen = false
}

func (r *Recorder) SetStep(step int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.Step = step
}

func (r *Recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.Path = path
}

// View returns a copy of the current view.
func (r *Recorder) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.view
	if v.Modal != nil {
		m := *v.Modal
		v.Modal = &m
	}
	return v
}
