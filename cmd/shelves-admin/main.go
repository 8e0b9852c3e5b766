// cmd/shelves-admin/main.go
package main

func main() {
	Execute()
}
