// Package validator checks a discovered extension set before it is compiled.
//
// Three independent checks run over the set: schema (each extension is
// self-consistent and its referenced files exist), isolation (an extension's
// text files do not mention another extension's skills, commands or
// directory), and conflicts (no two extensions claim the same rule numbers,
// skill, hook script or command). Every check returns human-readable
// violation strings and never stops at the first problem.
package validator
