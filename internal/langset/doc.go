// Package langset applies a target content language to wiki pages via
// action=setpagelanguage, one sequential call per title.
package langset
