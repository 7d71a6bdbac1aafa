package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftsphere/marketplace/internal/repo"
)

var (
	ErrMissingArgument = errors.New("missing argument")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
)

// Result carries a negative-but-expected outcome ("Stock limit reached")
// the same way as a success: it is feedback for the caller, not an error.
type Result struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Quantity uint   `json:"quantity"`
}

type Service struct {
	Repo *repo.GormRepo
}

func parseID(raw, name string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrMissingArgument, name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s format", ErrInvalidInput, name)
	}
	return id, nil
}

// GetCart resolves the user's cart into line items with product details.
// A user without a cart gets an empty slice.
func (s *Service) GetCart(ctx context.Context, userID string) ([]repo.CartLine, error) {
	uid, err := parseID(userID, "userId")
	if err != nil {
		return nil, err
	}

	lines, err := s.Repo.GetCartLines(ctx, nil, uid)
	if err != nil {
		return nil, fmt.Errorf("fetch cart: %w", err)
	}
	return lines, nil
}

// GetCartProductQuantity reports how many units of one product sit in the
// user's cart, 0 when the cart or the line item is absent.
func (s *Service) GetCartProductQuantity(ctx context.Context, userID, productID string) (uint, error) {
	uid, err := parseID(userID, "userId")
	if err != nil {
		return 0, err
	}
	pid, err := parseID(productID, "productId")
	if err != nil {
		return 0, err
	}

	qty, err := s.Repo.CartProductQuantity(ctx, nil, uid, pid)
	if err != nil {
		return 0, fmt.Errorf("fetch cart quantity: %w", err)
	}
	return qty, nil
}

// AddItem puts one more unit of a product into the user's cart. The
// increment is allowed exactly when current stock exceeds the quantity
// already reserved in the cart; at the ceiling the cart stays untouched
// and the result says so. Stock is read and the cart mutated inside one
// transaction, so a concurrent change to the same cart or product row
// cannot interleave.
func (s *Service) AddItem(ctx context.Context, userID, productID string) (*Result, error) {
	uid, err := parseID(userID, "userId")
	if err != nil {
		return nil, err
	}
	pid, err := parseID(productID, "productId")
	if err != nil {
		return nil, err
	}

	var res *Result
	err = s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stock, err := s.Repo.ProductQuantity(ctx, tx, pid)
		if err != nil {
			return err
		}

		cartQuantity, err := s.Repo.CartProductQuantity(ctx, tx, uid, pid)
		if err != nil {
			return err
		}

		if stock <= cartQuantity {
			res = &Result{Success: false, Message: "Stock limit reached", Quantity: cartQuantity}
			return nil
		}

		if cartQuantity > 0 {
			if err := s.Repo.IncrementCartItem(tx, uid, pid, 1); err != nil {
				return err
			}
			res = &Result{Success: true, Message: "Cart updated!", Quantity: cartQuantity + 1}
			return nil
		}

		if err := s.Repo.AddCartItem(tx, uid, pid); err != nil {
			return err
		}
		res = &Result{Success: true, Message: "Product added to cart!", Quantity: 1}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add item to cart: %w", err)
	}
	return res, nil
}

// DeleteItem takes one unit of a product out of the cart: a decrement
// while the line item holds more than one unit, a line removal at one,
// and the whole cart record goes when that was its only line item.
func (s *Service) DeleteItem(ctx context.Context, userID, productID string) (*Result, error) {
	uid, err := parseID(userID, "userId")
	if err != nil {
		return nil, err
	}
	pid, err := parseID(productID, "productId")
	if err != nil {
		return nil, err
	}

	var res *Result
	err = s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cartQuantity, err := s.Repo.CartProductQuantity(ctx, tx, uid, pid)
		if err != nil {
			return err
		}
		lineCount, err := s.Repo.CartItemCount(ctx, tx, uid)
		if err != nil {
			return err
		}

		if cartQuantity > 1 {
			if err := s.Repo.IncrementCartItem(tx, uid, pid, -1); err != nil {
				return err
			}
			res = &Result{Success: true, Message: "Cart updated!", Quantity: cartQuantity - 1}
			return nil
		}

		if lineCount > 1 {
			if err := s.Repo.DeleteCartItem(tx, uid, pid); err != nil {
				return err
			}
			res = &Result{Success: true, Message: "Product removed from cart!"}
			return nil
		}

		if _, err := s.Repo.DeleteCart(tx, uid); err != nil {
			return err
		}
		res = &Result{Success: true, Message: "Cart deleted!"}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete item from cart: %w", err)
	}
	return res, nil
}

// ChangeProductAmount sets a line item to an absolute quantity, clamped
// to current stock. A nil amount is a missing argument; zero is a valid
// explicit amount. Zero or negative amounts remove the line item (and
// the cart when it empties) so no quantity below one is ever persisted.
func (s *Service) ChangeProductAmount(ctx context.Context, userID, productID string, amount *int) (*Result, error) {
	uid, err := parseID(userID, "userId")
	if err != nil {
		return nil, err
	}
	pid, err := parseID(productID, "productId")
	if err != nil {
		return nil, err
	}
	if amount == nil {
		return nil, fmt.Errorf("%w: amount", ErrMissingArgument)
	}

	var res *Result
	err = s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stock, err := s.Repo.ProductQuantity(ctx, tx, pid)
		if err != nil {
			return err
		}

		target := *amount
		if target > int(stock) {
			target = int(stock)
		}

		if target <= 0 {
			if err := s.removeLine(ctx, tx, uid, pid); err != nil {
				return err
			}
			if *amount > int(stock) {
				res = &Result{Success: true, Message: "Inventory limit reached!", Quantity: 0}
			} else {
				res = &Result{Success: true, Message: "Product removed from cart!"}
			}
			return nil
		}

		if err := s.Repo.SetCartItemQuantity(tx, uid, pid, uint(target)); err != nil {
			return err
		}
		if *amount > int(stock) {
			res = &Result{Success: true, Message: "Inventory limit reached!", Quantity: stock}
			return nil
		}
		res = &Result{Success: true, Message: "Cart updated!", Quantity: uint(target)}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("change product amount in cart: %w", err)
	}
	return res, nil
}

// RemoveCompleteItem drops a product's whole line item regardless of its
// quantity; the cart record goes with it when nothing else is left.
func (s *Service) RemoveCompleteItem(ctx context.Context, userID, productID string) (*Result, error) {
	uid, err := parseID(userID, "userId")
	if err != nil {
		return nil, err
	}
	pid, err := parseID(productID, "productId")
	if err != nil {
		return nil, err
	}

	var res *Result
	err = s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lineCount, err := s.Repo.CartItemCount(ctx, tx, uid)
		if err != nil {
			return err
		}

		if lineCount <= 1 {
			if _, err := s.Repo.DeleteCart(tx, uid); err != nil {
				return err
			}
			res = &Result{Success: true, Message: "Cart cleared!"}
			return nil
		}

		if err := s.Repo.DeleteCartItem(tx, uid, pid); err != nil {
			return err
		}
		res = &Result{Success: true, Message: "Product removed from cart!"}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("remove complete item from cart: %w", err)
	}
	return res, nil
}

// RemoveCart deletes the user's cart record outright.
func (s *Service) RemoveCart(ctx context.Context, userID string) (*Result, error) {
	uid, err := parseID(userID, "userId")
	if err != nil {
		return nil, err
	}

	var res *Result
	err = s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := s.Repo.DeleteCart(tx, uid)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("%w: cart for user", ErrNotFound)
		}
		res = &Result{Success: true, Message: "Cart removed successfully."}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("remove cart: %w", err)
	}
	return res, nil
}

// RemoveProductFromAllCarts pulls one product out of every cart that
// references it in a single bulk update, then sweeps away any cart the
// pull left empty. Used when a product is deleted or disapproved.
func (s *Service) RemoveProductFromAllCarts(ctx context.Context, productID string) (*Result, error) {
	pid, err := parseID(productID, "productId")
	if err != nil {
		return nil, err
	}

	var res *Result
	err = s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed, err := s.Repo.DeleteCartItemsByProduct(tx, pid)
		if err != nil {
			return err
		}
		if removed == 0 {
			return fmt.Errorf("%w: product in any cart", ErrNotFound)
		}

		if err := s.Repo.DeleteEmptyCarts(tx); err != nil {
			return err
		}

		res = &Result{Success: true, Message: "Product removed from all carts."}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("remove product from all carts: %w", err)
	}
	return res, nil
}

// removeLine is the per-user line removal shared by the absolute-set and
// removal paths: the line goes, and the cart record follows when it was
// the last one.
func (s *Service) removeLine(ctx context.Context, tx *gorm.DB, userID, productID uuid.UUID) error {
	lineCount, err := s.Repo.CartItemCount(ctx, tx, userID)
	if err != nil {
		return err
	}
	if lineCount <= 1 {
		_, err := s.Repo.DeleteCart(tx, userID)
		return err
	}
	return s.Repo.DeleteCartItem(tx, userID, productID)
}
