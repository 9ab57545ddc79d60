// Package models defines the rows of the restaurant database.
//
// Every model maps 1:1 onto a table. Field tags carry the column name
// (`db`), the JSON name used by the front-end (`json`, identical to the
// column) and the input rules checked before a write (`validate`).
//
// # Tables
//
//   - Address (Endereco) and Client (Cliente)
//   - Ingredient (Ingrediente), Stock (Estoque), Dish (Prato) and
//     DishIngredient (Prato_Ingrediente)
//   - Order (Pedido) and OrderItem (ItemPedido)
//   - Payment (Pagamento) with CardPayment, PixPayment and CashPayment
//   - User (Usuario), staff accounts used for login
//
// Money is always an integer number of cents. Ingredient quantities are
// decimals.
//
// IDs are strings chosen by the caller. The service layer generates a UUID
// when a create request leaves the ID empty.
package models
