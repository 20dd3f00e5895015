package entity

import "fmt"

// ConfigurationError shablonda kutilgan metadata sheet topilmaganda qaytadi
type ConfigurationError struct {
	File   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.File, e.Reason)
}

// RecognitionError shablon formati (dialekt) aniqlanmaganda qaytadi
type RecognitionError struct {
	File   string
	Reason string
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("unrecognized template layout in %s: %s", e.File, e.Reason)
}

// GenerationError bitta mahsulot uchun AI kontent yaratishda xatolik
type GenerationError struct {
	SKU    string
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("content generation failed for %s: %s: %v", e.SKU, e.Reason, e.Err)
	}
	return fmt.Sprintf("content generation failed for %s: %s", e.SKU, e.Reason)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
