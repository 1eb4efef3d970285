// Package events defines the typed messages the core emits to a presentation
// layer: navigation directives, notifications and re-render hints.
package events

import (
	"fmt"

	"tableflip.dev/entrybook/pkg/entry"
)

// Msg is any message delivered on a session's event channel.
type Msg interface {
	// Describe renders the message in a human-friendly format for logs.
	Describe() string
}

// Screen identifies one of the three views.
type Screen string

const (
	ScreenList   Screen = "list"
	ScreenDetail Screen = "detail"
	ScreenForm   Screen = "form"
)

// Directive is a navigation message naming the screen to show next.
type Directive interface {
	Msg
	Target() Screen
}

// OpenList navigates to the entry list.
type OpenList struct{}

func (OpenList) Target() Screen   { return ScreenList }
func (OpenList) Describe() string { return `screen:"list"` }

// OpenDetail navigates to the detail view of one entry.
type OpenDetail struct {
	ID string
}

func (OpenDetail) Target() Screen { return ScreenDetail }

func (m OpenDetail) Describe() string {
	return fmt.Sprintf(`screen:"detail" id:%q`, m.ID)
}

// OpenForm navigates to the form. Editing is nil for a new entry.
type OpenForm struct {
	Editing *entry.Entry
}

func (OpenForm) Target() Screen { return ScreenForm }

func (m OpenForm) Describe() string {
	if m.Editing == nil {
		return `screen:"form" mode:"create"`
	}
	return fmt.Sprintf(`screen:"form" mode:"edit" id:%q`, m.Editing.ID)
}

// Kind classifies a notification for presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a short toast-style message.
type Notification struct {
	Kind        Kind
	Title       string
	Description string
}

func (m Notification) Describe() string {
	return fmt.Sprintf(`kind:%q title:%q`, m.Kind, m.Title)
}

// Refreshed tells the presentation layer the view model of Screen changed and
// should be rendered again.
type Refreshed struct {
	Screen Screen
}

func (m Refreshed) Describe() string {
	return fmt.Sprintf(`screen:%q`, m.Screen)
}

const retryDescription = "Something went wrong. Please try again."

// Validation reports a draft that failed validation.
func Validation(reason string) Notification {
	return Notification{Kind: KindError, Title: "Validation Error", Description: reason}
}

// NotFound reports an entry that no longer exists.
func NotFound() Notification {
	return Notification{Kind: KindError, Title: "Entry Not Found", Description: "This entry no longer exists."}
}

// SaveFailed reports a storage failure during submit.
func SaveFailed() Notification {
	return Notification{Kind: KindError, Title: "Save Failed", Description: retryDescription}
}

// DeleteFailed reports a storage failure during delete.
func DeleteFailed() Notification {
	return Notification{Kind: KindError, Title: "Delete Failed", Description: retryDescription}
}

// LoadFailed reports a storage failure while loading a view.
func LoadFailed() Notification {
	return Notification{Kind: KindError, Title: "Load Failed", Description: retryDescription}
}

// Created confirms a new entry was saved.
func Created() Notification {
	return Notification{Kind: KindSuccess, Title: "Success", Description: "Form submitted successfully!"}
}

// Updated confirms an edit was saved.
func Updated() Notification {
	return Notification{Kind: KindSuccess, Title: "Entry Updated", Description: "Your changes have been saved."}
}

// Deleted confirms an entry was removed.
func Deleted() Notification {
	return Notification{Kind: KindSuccess, Title: "Entry Deleted", Description: "The form entry has been successfully removed."}
}
