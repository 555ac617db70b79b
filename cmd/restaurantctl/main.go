package main

import "restaurant-admin/cmd/restaurantctl/commands"

func main() {
	commands.Execute()
}
