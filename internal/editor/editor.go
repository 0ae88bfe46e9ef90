// Package editor tracks which edit dialog is open and which record it is
// editing. Pure state holder; no network or validation logic.
package editor

import (
	"sync"

	"github.com/campusadmin/campusctl/internal/model"
)

// Coordinator holds the transient edit-dialog state. Safe for concurrent
// use. After Close, no stale record reference is observable until it is
// explicitly set again.
type Coordinator struct {
	mu             sync.Mutex
	activeDialog   string
	editMode       bool
	currentCollege *model.College
	currentProgram *model.Program
	currentStudent *model.Student
}

// New creates a Coordinator with nothing open.
func New() *Coordinator {
	return &Coordinator{}
}

// Open marks the named dialog as active.
func (c *Coordinator) Open(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeDialog = name
}

// Close clears the active dialog, the edit flag, and every current-record
// slot atomically. Idempotent.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeDialog = ""
	c.editMode = false
	c.currentCollege = nil
	c.currentProgram = nil
	c.currentStudent = nil
}

// SetEditMode records whether the open dialog is editing an existing record.
func (c *Coordinator) SetEditMode(edit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editMode = edit
}

// SetCurrentCollege stores the college being edited, or nil to clear it.
func (c *Coordinator) SetCurrentCollege(college *model.College) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentCollege = college
}

// SetCurrentProgram stores the program being edited, or nil to clear it.
func (c *Coordinator) SetCurrentProgram(program *model.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentProgram = program
}

// SetCurrentStudent stores the student being edited, or nil to clear it.
func (c *Coordinator) SetCurrentStudent(student *model.Student) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentStudent = student
}

// ActiveDialog returns the open dialog name, or "" when none is open.
func (c *Coordinator) ActiveDialog() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeDialog
}

// EditMode reports whether the open dialog is in edit mode.
func (c *Coordinator) EditMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editMode
}

// CurrentCollege returns the college being edited, or nil.
func (c *Coordinator) CurrentCollege() *model.College {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentCollege
}

// CurrentProgram returns the program being edited, or nil.
func (c *Coordinator) CurrentProgram() *model.Program {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentProgram
}

// CurrentStudent returns the student being edited, or nil.
func (c *Coordinator) CurrentStudent() *model.Student {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentStudent
}
