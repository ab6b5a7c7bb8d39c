// Package script produces and normalizes VideoScript values.
//
// Generator asks the completion service for a JSON script, extracting the
// first balanced object from the reply. When the reply cannot be used it falls
// back to a fixed intro/main/summary script. ValidateAndAdjust scales section
// durations down proportionally so the total fits a ceiling. LoadFile reads an
// operator-edited script so a run can skip the completion call.
package script
