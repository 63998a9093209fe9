// Package cli provides the interactive command-line client of the users
// service.
//
// Commands:
//
//	register   create an account; the activation code arrives by email
//	activate   confirm the pending registration with the emailed code
//	login      open a session
//	me         show the logged-in account
//	list       list all accounts
//	logout     end the session
//	exit       leave the program
//
// Passwords are read from the terminal without echo.
package cli
